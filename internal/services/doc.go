// Package services defines shared error utilities consumed by the probe,
// encode, and batch packages.
//
// Structured error markers plus the Wrap helper keep failure classification
// uniform: probe failures and transient encoder exits are skippable, while
// configuration problems abort the run.
package services
