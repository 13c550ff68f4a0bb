package progress

// Kind classifies a progress event.
type Kind int

const (
	// KindDownloading indicates an in-flight transfer.
	KindDownloading Kind = iota
	// KindComplete indicates the artifact was downloaded and installed.
	KindComplete
	// KindFailed indicates the attempt ended without a usable artifact.
	KindFailed
)

// Event is a fire-and-forget notification about a download.
// Events carry no identity and are never persisted; a consumer that drops
// events loses UI fidelity only, not correctness.
type Event struct {
	Kind            Kind
	Percent         float64 // 0..100
	Message         string
	BytesDownloaded int64
	BytesTotal      int64
}

// Callback receives progress events. Implementations must not block for long:
// events are emitted from the download loop.
type Callback func(Event)

// Started returns the initial 0% event for a download.
func Started(message string, total int64) Event {
	return Event{
		Kind:       KindDownloading,
		Percent:    0,
		Message:    message,
		BytesTotal: total,
	}
}

// Update returns an in-flight event. Percent is 0 when total is unknown.
func Update(message string, downloaded, total int64) Event {
	var pct float64
	if total > 0 {
		pct = float64(downloaded) / float64(total) * 100
		// The total may be the catalog's approximation; never report past 100.
		if pct > 100 {
			pct = 100
		}
	}
	return Event{
		Kind:            KindDownloading,
		Percent:         pct,
		Message:         message,
		BytesDownloaded: downloaded,
		BytesTotal:      total,
	}
}

// Completed returns the final 100% event for a successful download.
func Completed(message string, total int64) Event {
	return Event{
		Kind:            KindComplete,
		Percent:         100,
		Message:         message,
		BytesDownloaded: total,
		BytesTotal:      total,
	}
}

// Failed returns a terminal 0% event carrying a human-readable reason.
func Failed(message string) Event {
	return Event{
		Kind:    KindFailed,
		Percent: 0,
		Message: message,
	}
}

// ChannelSink adapts a channel into a Callback. Sends are non-blocking:
// when the channel is full the event is dropped rather than stalling the
// download loop.
func ChannelSink(ch chan<- Event) Callback {
	return func(e Event) {
		select {
		case ch <- e:
		default:
		}
	}
}
