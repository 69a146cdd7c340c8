/*
Package ui is the interactive operator side of easypatcher.

The menu is a finite state machine: a pure Transition function over
States and Events, and a Menu that runs one handler per state and feeds
the resulting event back into Transition.

Input is line oriented. A Prompter reads answers from any LineReader,
usually a readline instance, and writes menus and tables to an io.Writer.
*/
package ui
