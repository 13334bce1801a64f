// Package policy provides optional declarative rules applied on top of the
// approval manager - for example to auto-execute a trusted binding without
// the confirmation gesture, or to block selected actions entirely.
package policy
