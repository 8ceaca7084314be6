// Package selection decides which proposed changes of a plan are merged.
//
// AcceptAll takes every proposal. Prompter asks on a terminal, once per new
// item and once per field update, so a matched item can have its play count
// accepted while a rating change is rejected.
package selection
