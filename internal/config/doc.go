// Package config provides configuration structures and utilities for Memex.
// It defines the main configuration options for the database and search
// index locations, import behavior, and report generation preferences.
package config
