// Package state provides a typed FSM/session manager for Telegram bots.
// Form data is carried as a concrete payload type instead of an untyped
// key/value bag, so each dialogue step only sees the fields it owns.
package state
