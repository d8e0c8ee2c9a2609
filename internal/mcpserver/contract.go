package mcpserver

// DeepLinkFormat documents the URLs accepted by open_deep_link and the
// tokens accepted by navigate.
const DeepLinkFormat = `# tabnav deep links

A deep link is ` + "`<scheme>://<domain>/<screen>[?id=<value>]`" + `. The default
scheme is ` + "`myapp`" + `. Matching is case-insensitive on the screen segment.
Opening a link rebuilds the whole chain leading to the screen and selects
the tab. Links that match nothing change nothing.

## Domains and screens

| Domain | Screen            | id        | Stack after open                                   |
|--------|-------------------|-----------|----------------------------------------------------|
| auth   | login             |           | login                                              |
| auth   | validation        |           | login, validation                                  |
| tab1   | screen1           |           | screen1                                            |
| tab1   | screen2           |           | screen1, screen2                                   |
| tab1   | detail            | customer  | screen1, screen2, detail                           |
| tab2   | screen1..screen3  |           | screen1 .. screenN                                 |
| tab2   | screen2detail     | any text  | screen1, screen2, screen2Detail                    |
| tab3   | screen1..screen6  |           | screen1 .. screenN                                 |
| tab3   | screen2detail     | any text  | screen1, screen2, screen2Detail                    |
| tab3   | screen2edit       | any text  | screen1, screen2, screen2Detail, screen2Edit       |
| tab4   | (empty) or root   |           | empty                                              |
| tab4   | details           | integer   | details                                            |

` + "`tab1/detail`" + ` also accepts the id as a path segment (` + "`myapp://tab1/detail/7`" + `).
The customer must exist in the directory.

## Tokens

The navigate tool takes a domain and a token ` + "`{tag, param}`" + `. Tags are the
screen names from the last column. Tab4 accepts tag ` + "`root`" + ` to clear its stack.
The push_edit tool pushes ` + "`screen2Edit`" + ` for an item id onto whatever Tab3 stack is
showing, without rebuilding the chain the way navigate does.

## Modals

Tab3 has two modal slots, ` + "`sheet`" + ` and ` + "`fullscreen`" + `. Each holds at most
one of ` + "`createItem`" + ` or ` + "`filter`" + `. Logout dismisses both.
`
