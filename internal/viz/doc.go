// Package viz draws cell layouts in a terminal.
//
// [Terminal] is a render.Backend that rasterizes a scene onto a braille
// [Canvas], one colored character per 2x4 dots. [Model] runs an
// experiment live with bubbletea and [App] adds a layout menu in front
// of it.
//
// # Key Bindings
//
//	Space    - Pause/Resume
//	N        - Single step
//	Tab / ]  - Select next column
//	Esc      - Clear selection
//	+ / -    - Input noise
//	WASD E C - Fly camera
//	T        - Cycle themes
//	?        - Show help overlay
package viz
