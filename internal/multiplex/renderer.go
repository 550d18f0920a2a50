package multiplex

// Renderer receives every event after the reporter has applied it to the
// registry, and drives whatever live display is attached to the run.
type Renderer interface {
	// Render is called once per event, from the reporter goroutine.
	// Implementations should hand off quickly and must not block on user
	// interaction.
	Render(event Event)
	// Close is called exactly once, after the event channel has drained.
	// This is the final, non-live draw.
	Close()
}

// NullRenderer is a no-op Renderer for runs without a display.
type NullRenderer struct{}

// Render implements Renderer by doing nothing.
func (NullRenderer) Render(Event) {}

// Close implements Renderer by doing nothing.
func (NullRenderer) Close() {}
