// SPDX-License-Identifier: EPL-2.0

// Package utils holds the sample level helpers shared by the audio and
// formats packages.
package utils
