package util

import (
	"fmt"

	"sixcardgolf/internal/rng"
)

var random rng.Generator = rng.Crypto{}

var adjectives = []string{
	"Fast", "Slow", "Quick", "Speedy", "Trotting", "Weaving", "Gracious", "Healthy", "Happy", "Funny",
	"Red", "Blue", "Green", "Orange", "Purple", "Fuzzy", "Smiling", "Tall", "Grand", "Ultimate", "Prime",
	"Alpha", "Growling", "Swimming", "Flying", "Jumping", "Running", "Charging", "Bouncing", "Leaping",
}

var animals = []string{
	"Dog", "Cat", "Mouse", "Alligator", "Crocodile", "Shark", "Hippo", "Giraffe", "Antelope", "Lion", "Tiger",
	"Bear", "Muskrat", "Otter", "Dolphin", "Porcupine", "Gerbil", "Hedgehog", "Snake", "Lizard", "Chipmunk",
	"Bird", "Okapi", "Eagle", "Wolf", "Fox", "Armadillo", "Rhino", "Reindeer", "Deer", "Panda",
}

// RandomUsername suggests a username by combining an adjective with an animal.
// Usernames must be single tokens, so the parts are joined without a space.
func RandomUsername() string {
	adjectivesIndex := random.Intn(len(adjectives))
	animalsIndex := random.Intn(len(animals))

	return fmt.Sprintf("%s%s", adjectives[adjectivesIndex], animals[animalsIndex])
}
