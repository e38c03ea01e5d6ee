// Package ui implements Shelf's terminal storefront with Bubble Tea.
//
// # Architecture
//
// Model follows the Elm architecture: Init starts the first catalog load,
// Update folds messages into a new Model, and View renders it with Lipgloss.
// Catalog work never runs inside Update. Page loads, product lookups and
// log reads are tea.Cmds, and the coordinator's change notifications reach
// the program through Program.Send as stateChangedMsg.
//
// # Views
//
//   - List: the current page of products, narrowed and ordered by the active
//     listing.Query (search, category, sort)
//   - Detail: a product page loaded through pages.Product
//   - Diagnostics: the tail of Shelf's own log file
//   - Help: keyboard shortcuts overlay
//
// # Search
//
// Typing in the search box restarts a debounce timer; only the last value is
// applied once typing pauses. Enter applies immediately and esc clears it.
//
// # Lazy image references
//
// Image URLs are only shown for rows that have been scrolled into view. A
// reveal.Observer tracks rows against the list viewport and marks them
// revealed once they become visible.
//
// # Themes
//
// Appearance holds the active Theme. Its Apply method is the dark mode
// preference's side effect, so pressing D persists the flag and swaps between
// DarkTheme and LightTheme.
package ui
