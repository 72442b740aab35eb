// Package dice rolls six-sided dice pools and classifies their results.
//
// A pool of one or more dice keeps its highest die; two or more sixes make
// a critical. A pool of zero dice rolls two and keeps the lower, and can
// never be critical. Randomness always comes from an injected Source.
package dice
