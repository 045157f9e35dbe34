// Package analysis drives the loudness, peak and dynamics meters over
// streams of interleaved PCM chunks.
//
// A [TrackSession] analyses one complete track and yields a [Result] once
// the input is exhausted. A [RealtimeSession] keeps bounded histories and
// publishes a lock-free [Snapshot] after every chunk. [Runner] analyses many
// tracks with bounded concurrency and [Monitor] polls a live source at a
// fixed cadence.
//
// Both session kinds segment audio into the same 100 ms steps and feed the
// same stages, so their values agree on identical input up to the history
// bound of the realtime session.
package analysis
