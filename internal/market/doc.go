// Package market classifies ticker codes into exchange venues.
//
// The quote endpoint requires every code to be qualified with its venue
// ("tse" listed main board or "otc" over-the-counter board). The Directory
// interface keeps the lookup swappable; the static implementation covers
// the seeded codes and defaults everything else to the listed board.
package market
