// Package srs holds the pure spaced-repetition and progression rules: the per-character
// result transition, review scheduling, prioritisation, XP and level arithmetic and the
// day-streak rule. Every function takes "now" explicitly and has no side effects.
package srs
