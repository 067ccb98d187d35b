// Package project creates a new Expressr application: it lays out the
// directory, copies the template, wires the port through .env, applies the
// selected addons and installs dependencies.
package project
