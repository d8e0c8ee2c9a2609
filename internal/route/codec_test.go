package route

import (
	"errors"
	"reflect"
	"strconv"
	"testing"

	"github.com/starford/tabnav/internal/models"
)

func TestTab3CodecRoundTrip(t *testing.T) {
	routes := []Tab3Route{
		{Screen: Tab3Screen1},
		{Screen: Tab3Screen2},
		{Screen: Tab3Screen2Detail, ID: "abc"},
		{Screen: Tab3Screen2Edit, ID: "abc"},
		{Screen: Tab3Screen6},
	}
	c := Tab3Codec()
	tokens := c.Encode(routes)
	if len(tokens) != len(routes) {
		t.Fatalf("encoded %d tokens, want %d", len(tokens), len(routes))
	}
	if tokens[3] != (Token{Tag: TagScreen2Edit, Param: "abc"}) {
		t.Errorf("edit token = %+v", tokens[3])
	}
	got, stats := c.Decode(tokens)
	if !reflect.DeepEqual(got, routes) {
		t.Errorf("round trip = %v, want %v", got, routes)
	}
	if stats != (DecodeStats{}) {
		t.Errorf("stats = %+v", stats)
	}
}

func TestDecodeDropsMalformedTokens(t *testing.T) {
	tokens := []Token{
		{Tag: TagScreen1},
		{Tag: "bogus"},
		{Tag: TagScreen2Detail},                // missing id
		{Tag: TagScreen2, Param: "unexpected"}, // stray param
		{Tag: TagScreen2Detail, Param: "9"},
	}
	got, stats := Tab2Codec().Decode(tokens)
	want := []Tab2Route{{Screen: Tab2Screen1}, {Screen: Tab2Screen2Detail, ID: "9"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("decode = %v, want %v", got, want)
	}
	if stats.Dropped != 3 {
		t.Errorf("dropped = %d, want 3", stats.Dropped)
	}
}

func TestTab4CodecIntegerParam(t *testing.T) {
	c := Tab4Codec()
	tokens := c.Encode([]Tab4Route{{ID: 12}})
	if tokens[0] != (Token{Tag: TagDetails, Param: "12"}) {
		t.Errorf("token = %+v", tokens[0])
	}
	got, stats := c.Decode([]Token{{Tag: TagDetails, Param: "x"}, {Tag: TagDetails, Param: "5"}})
	if !reflect.DeepEqual(got, []Tab4Route{{ID: 5}}) || stats.Dropped != 1 {
		t.Errorf("decode = %v %+v", got, stats)
	}
}

func testCustomers() CustomerIDs {
	known := map[int]models.Customer{
		1: {ID: 1, Login: "octo"},
	}
	return CustomerIDs{
		Extract: models.Customer.StableID,
		Resolve: func(id string) (models.Customer, bool) {
			n, err := strconv.Atoi(id)
			if err != nil {
				return models.Customer{}, false
			}
			c, ok := known[n]
			return c, ok
		},
	}
}

func TestTab1CodecWithoutExtractorOmitsDetail(t *testing.T) {
	routes := []Tab1Route{
		{Screen: Tab1Screen1},
		{Screen: Tab1Screen2},
		{Screen: Tab1Detail, Customer: models.Customer{ID: 1}},
	}
	tokens := Tab1Codec(CustomerIDs{}).Encode(routes)
	want := []Token{{Tag: TagScreen1}, {Tag: TagScreen2}}
	if !reflect.DeepEqual(tokens, want) {
		t.Errorf("tokens = %v, want %v", tokens, want)
	}
}

func TestTab1CodecResolvesDetail(t *testing.T) {
	c := Tab1Codec(testCustomers())
	routes := []Tab1Route{
		{Screen: Tab1Screen1},
		{Screen: Tab1Screen2},
		{Screen: Tab1Detail, Customer: models.Customer{ID: 1, Login: "octo"}},
	}
	got, stats := c.Decode(c.Encode(routes))
	if !reflect.DeepEqual(got, routes) {
		t.Errorf("round trip = %v", got)
	}
	if stats.Degraded != 0 {
		t.Errorf("degraded = %d", stats.Degraded)
	}
}

func TestTab1CodecDegradesUnresolvedDetail(t *testing.T) {
	s1 := Tab1Route{Screen: Tab1Screen1}
	s2 := Tab1Route{Screen: Tab1Screen2}

	t.Run("no resolver", func(t *testing.T) {
		got, stats := Tab1Codec(CustomerIDs{}).Decode([]Token{{Tag: TagScreen1}, {Tag: TagScreen2}, {Tag: TagDetail, Param: "1"}})
		if !reflect.DeepEqual(got, []Tab1Route{s1, s2}) {
			t.Errorf("decode = %v", got)
		}
		if stats.Degraded != 1 {
			t.Errorf("degraded = %d", stats.Degraded)
		}
	})

	t.Run("unknown customer without ancestor", func(t *testing.T) {
		got, _ := Tab1Codec(testCustomers()).Decode([]Token{{Tag: TagScreen1}, {Tag: TagDetail, Param: "99"}})
		if !reflect.DeepEqual(got, []Tab1Route{s1, s2}) {
			t.Errorf("decode = %v", got)
		}
	})
}

func TestModalCodec(t *testing.T) {
	c := ModalCodec()
	tok, ok := EncodeOne(c, ModalFilter)
	if !ok || tok.Tag != TagFilter {
		t.Fatalf("encode = %+v %v", tok, ok)
	}
	m, ok := DecodeOne(c, Token{Tag: TagCreateItem})
	if !ok || m != ModalCreateItem {
		t.Errorf("decode = %v %v", m, ok)
	}
	if _, ok := DecodeOne(c, Token{Tag: "sheet"}); ok {
		t.Error("unknown modal should not decode")
	}
}

func TestUnmarshalFormats(t *testing.T) {
	structured, err := Marshal([]Token{{Tag: TagScreen1}, {Tag: TagScreen2Detail, Param: "42"}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	legacy := []byte(`["screen1","screen2Detail:42"]`)

	fromStructured, wasLegacy, err := Unmarshal(structured)
	if err != nil || wasLegacy {
		t.Fatalf("structured: legacy=%v err=%v", wasLegacy, err)
	}
	fromLegacy, wasLegacy, err := Unmarshal(legacy)
	if err != nil || !wasLegacy {
		t.Fatalf("legacy: legacy=%v err=%v", wasLegacy, err)
	}
	if !reflect.DeepEqual(fromStructured, fromLegacy) {
		t.Errorf("structured %v != legacy %v", fromStructured, fromLegacy)
	}

	for _, bad := range []string{"", "nope", `{"tokens":`, `[1,2]`} {
		if _, _, err := Unmarshal([]byte(bad)); !errors.Is(err, ErrMalformedBlob) {
			t.Errorf("Unmarshal(%q) err = %v", bad, err)
		}
	}
}

func TestLegacyParamSplitsAtFirstColon(t *testing.T) {
	got := ParseLegacy([]string{"screen2Edit:a", "screen3"})
	want := []Token{{Tag: TagScreen2Edit, Param: "a"}, {Tag: TagScreen3}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseLegacy = %v", got)
	}
	if back := FormatLegacy(got); !reflect.DeepEqual(back, []string{"screen2Edit:a", "screen3"}) {
		t.Errorf("FormatLegacy = %v", back)
	}
}
