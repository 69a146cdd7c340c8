package ui

import (
	"fmt"

	"github.com/easypatcher/easypatcher/pkg/errors"
)

// ErrInvalidTransition is returned for an event that the current state does not accept
var ErrInvalidTransition = errors.New("invalid transition")

// State of the operator menu
type State uint8

// Menu states
const (
	MainMenu State = iota
	TaskMenu
	PatchSelection
	ConfirmApply
	Exit
)

var stateNames = map[State]string{
	MainMenu:       "main menu",
	TaskMenu:       "task menu",
	PatchSelection: "patch selection",
	ConfirmApply:   "confirm apply",
	Exit:           "exit",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// Event moves the menu from one state to another
type Event uint8

// Menu events
const (
	EventSelectTask Event = iota + 1
	EventBuildPatch
	EventSelectionDone
	EventConfirm
	EventDecline
	EventBack
	EventTaskDeleted
	EventStay
	EventQuit
)

var eventNames = map[Event]string{
	EventSelectTask:    "select task",
	EventBuildPatch:    "build patch",
	EventSelectionDone: "selection done",
	EventConfirm:       "confirm",
	EventDecline:       "decline",
	EventBack:          "back",
	EventTaskDeleted:   "task deleted",
	EventStay:          "stay",
	EventQuit:          "quit",
}

func (e Event) String() string {
	if n, ok := eventNames[e]; ok {
		return n
	}
	return fmt.Sprintf("event(%d)", uint8(e))
}

var transitions = map[State]map[Event]State{
	MainMenu: {
		EventSelectTask: TaskMenu,
		EventStay:       MainMenu,
		EventBack:       Exit,
	},
	TaskMenu: {
		EventBuildPatch:  PatchSelection,
		EventTaskDeleted: MainMenu,
		EventStay:        TaskMenu,
		EventBack:        MainMenu,
	},
	PatchSelection: {
		EventSelectionDone: ConfirmApply,
		EventStay:          PatchSelection,
		EventBack:          TaskMenu,
	},
	ConfirmApply: {
		EventConfirm: TaskMenu,
		EventDecline: TaskMenu,
		EventBack:    PatchSelection,
	},
}

// Transition yields the state following an event. An event the state does
// not accept leaves the state unchanged and returns ErrInvalidTransition.
func Transition(s State, e Event) (State, error) {
	if e == EventQuit && s != Exit {
		return Exit, nil
	}
	next, ok := transitions[s][e]
	if !ok {
		return s, ErrInvalidTransition.Wrapf("%v on %v", e, s)
	}
	return next, nil
}
