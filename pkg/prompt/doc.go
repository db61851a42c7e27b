// Package prompt collects form values interactively on the terminal. A
// Session walks a schema definition, mounts a live field per leaf, and asks
// for each value through a swappable Driver, re-prompting on validation
// failures before a final gated submit.
package prompt
