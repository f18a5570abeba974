// Package config parses and validates the settings of the clock simulation.
package config
