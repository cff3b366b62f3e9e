// Package viz draws a particle scene into the terminal.
//
//   - [Canvas]: Braille sub-cell canvas, 2x4 dots per character cell
//   - [BrailleRenderer]: a render.Renderer that projects points onto a Canvas
//   - [GIFRecorder]: captures canvas frames into an animated GIF
//   - Themes and lipgloss helpers for the panels around the canvas
package viz
