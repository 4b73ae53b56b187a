package rng

// Generator provides a simple random number source. Code that only
// needs Intn takes a Generator so tests can plug in a fixed sequence.
type Generator interface {
	// Intn will return a random number up to but not including n
	Intn(n int) int
}
