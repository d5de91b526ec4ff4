// Package viz is the interactive terminal front end, built on Bubble Tea.
//
// The [Model] drives a session.Controller: it reserves runs on the UI
// goroutine and executes them as commands, polling the controller's frame on
// a fixed tick. Wide terminals get vertical bars beside the control panel;
// narrow ones get labelled horizontal bars below it.
//
// # Key Bindings
//
//	Enter/S - Start the selected algorithm
//	X       - Stop the active run
//	G       - Generate a new array
//	O       - Toggle sorted generation
//	+/-     - Change speed
//	[ ]     - Fewer or more bars
//	T       - Edit the search target
//	Shift+T - Cycle color themes
//	?       - Show all key bindings
//
// Only stop, speed, theme and help respond while a run is active.
package viz
