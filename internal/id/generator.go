package id

import (
	"time"

	fid "github.com/amterp/flexid"
)

// Prefix marks generated card IDs so they stay recognisable in exports.
const Prefix = "card-"

var generator *fid.Generator

func init() {
	epoch := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	config := fid.NewConfig().
		WithEpoch(epoch).
		WithTickSize(time.Millisecond).
		WithNumRandomChars(4)

	generator = fid.MustNewGenerator(config)
}

// Generate returns a new unique card ID.
func Generate() string {
	return Prefix + generator.MustGenerate()
}
