// Package media validates user-submitted media uploads before they are
// shipped to the transcription provider. It checks payload presence and size,
// media kind, and the file extension allow-lists, and fills in a fallback
// MIME type when the caller did not declare one.
package media
