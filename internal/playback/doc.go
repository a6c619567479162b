// Package playback paces replay of recorded steps. A Player ticks at a
// fixed interval and hands out the next step only once the consumer has
// applied the previous one.
package playback
