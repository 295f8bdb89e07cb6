// Package model defines the types shared by the validators, the form
// controller and the submission state machine. Field states are derived
// purely from a value and a rule; views (message + visual) are derived from
// states. Nothing in this package touches storage or time.
package model
