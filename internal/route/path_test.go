package route

import (
	"reflect"
	"testing"
)

func TestTab3Path(t *testing.T) {
	s1 := Tab3Route{Screen: Tab3Screen1}
	s2 := Tab3Route{Screen: Tab3Screen2}
	s3 := Tab3Route{Screen: Tab3Screen3}
	s4 := Tab3Route{Screen: Tab3Screen4}
	s5 := Tab3Route{Screen: Tab3Screen5}
	s6 := Tab3Route{Screen: Tab3Screen6}
	detail := Tab3Route{Screen: Tab3Screen2Detail, ID: "42"}
	edit := Tab3Route{Screen: Tab3Screen2Edit, ID: "42"}

	cases := []struct {
		name string
		to   Tab3Route
		want []Tab3Route
	}{
		{"screen1", s1, []Tab3Route{s1}},
		{"screen2", s2, []Tab3Route{s1, s2}},
		{"detail", detail, []Tab3Route{s1, s2, detail}},
		{"edit implies detail", edit, []Tab3Route{s1, s2, detail, edit}},
		{"screen3", s3, []Tab3Route{s1, s2, s3}},
		{"screen4", s4, []Tab3Route{s1, s2, s3, s4}},
		{"screen5", s5, []Tab3Route{s1, s2, s3, s4, s5}},
		{"screen6", s6, []Tab3Route{s1, s2, s3, s4, s5, s6}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Tab3Path(tc.to); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Tab3Path(%v) = %v, want %v", tc.to, got, tc.want)
			}
		})
	}
}

func TestTab2Path(t *testing.T) {
	s1 := Tab2Route{Screen: Tab2Screen1}
	s2 := Tab2Route{Screen: Tab2Screen2}
	s3 := Tab2Route{Screen: Tab2Screen3}
	detail := Tab2Route{Screen: Tab2Screen2Detail, ID: "7"}

	if got := Tab2Path(s3); !reflect.DeepEqual(got, []Tab2Route{s1, s2, s3}) {
		t.Errorf("screen3 path = %v", got)
	}
	if got := Tab2Path(detail); !reflect.DeepEqual(got, []Tab2Route{s1, s2, detail}) {
		t.Errorf("detail path = %v", got)
	}
	if got := Tab2Path(s1); !reflect.DeepEqual(got, []Tab2Route{s1}) {
		t.Errorf("root path = %v", got)
	}
}

func TestAuthAndTab4Path(t *testing.T) {
	login := AuthRoute{Screen: AuthLogin}
	validation := AuthRoute{Screen: AuthValidation}
	if got := AuthPath(validation); !reflect.DeepEqual(got, []AuthRoute{login, validation}) {
		t.Errorf("auth path = %v", got)
	}
	if got := Tab4Path(Tab4Route{ID: 3}); !reflect.DeepEqual(got, []Tab4Route{{ID: 3}}) {
		t.Errorf("tab4 path = %v", got)
	}
}

func TestDefinitionRoot(t *testing.T) {
	if !Tab3Definition().IsRoot(Tab3Route{Screen: Tab3Screen1}) {
		t.Error("screen1 should be tab3 root")
	}
	if Tab3Definition().IsRoot(Tab3Route{Screen: Tab3Screen2}) {
		t.Error("screen2 is not tab3 root")
	}
	if Tab4Definition().IsRoot(Tab4Route{}) {
		t.Error("tab4 has no root")
	}
	if got := Tab3Definition().Key(); got != "router.tab3.path" {
		t.Errorf("key = %q", got)
	}
}

func TestParseDomain(t *testing.T) {
	for _, d := range Domains {
		got, err := ParseDomain(d.String())
		if err != nil || got != d {
			t.Errorf("ParseDomain(%q) = %v, %v", d.String(), got, err)
		}
	}
	if d, err := ParseDomain("TAB3"); err != nil || d != Tab3 {
		t.Errorf("case-insensitive parse failed: %v %v", d, err)
	}
	if _, err := ParseDomain("tab9"); err == nil {
		t.Error("expected error for unknown domain")
	}
}
