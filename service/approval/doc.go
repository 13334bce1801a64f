// Package approval implements the confirm-before-execute cycle that guards
// every gesture-triggered action. A mapped gesture only marks an action as
// pending; the dedicated approval gesture (closed fist) must follow before
// anything executes. The two-phase cycle absorbs recognition flicker: a held
// pose repeating across frames goes pending once, and a stray misclassified
// gesture can never execute on its own.
package approval
