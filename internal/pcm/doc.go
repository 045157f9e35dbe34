// Package pcm adapts WAV files to the analysis sources: a chunked Reader
// for batch analysis and a Live stream that replays decoded audio in real
// time for monitoring.
package pcm
