// Package resources copies resource files into a build's output, optionally
// substituting ${name} placeholders with build variables.
package resources
