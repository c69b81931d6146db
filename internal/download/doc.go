// Package download builds yt-dlp invocations from download requests,
// supervises the external process, and parses its progress output.
//
// The three pieces are deliberately separated: BuildArgs is a pure
// transform, ParseProgressLine is a stateless line matcher, and Service
// ties them to a single supervised child process with cooperative
// cancellation.
package download
