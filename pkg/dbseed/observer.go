package dbseed

// Observer receives progress notifications from readers and loaders.
// Implementations must not block; they run inline with reads and inserts.
type Observer interface {
	// FileReading is called before a fixture file is read.
	FileReading(filename string)

	// FileRead is called after a fixture file was parsed into count fixtures.
	FileRead(filename string, count int)

	// FixtureLoaded is called after the fixture at index was inserted.
	FixtureLoaded(index int, fixture Fixture)
}

// NopObserver ignores every notification. Embed it to implement only some methods.
type NopObserver struct{}

func (NopObserver) FileReading(string)         {}
func (NopObserver) FileRead(string, int)       {}
func (NopObserver) FixtureLoaded(int, Fixture) {}

// Observers fans notifications out to several observers in order.
type Observers []Observer

func (o Observers) FileReading(filename string) {
	for _, obs := range o {
		obs.FileReading(filename)
	}
}

func (o Observers) FileRead(filename string, count int) {
	for _, obs := range o {
		obs.FileRead(filename, count)
	}
}

func (o Observers) FixtureLoaded(index int, fixture Fixture) {
	for _, obs := range o {
		obs.FixtureLoaded(index, fixture)
	}
}
