// Package feed holds the feed's domain logic on top of the post repository:
// like and reaction toggles, the search/sort query pipeline and dashboard
// statistics. Apart from Reactor, everything here is pure and never mutates
// its arguments.
package feed
