// Package meta holds the default settings shared by the CLI and experiments.
package meta

// SIMULATIONS is the number of search simulations per move.
const SIMULATIONS = 100

// BOARD_SIZE is the Reversi board edge length.
const BOARD_SIZE = 8

// MAX_TURNS stops a game that has not ended on its own.
const MAX_TURNS = 300

// PORT is where the agent server listens.
const PORT = "8080"

// TEMPERATURE is the training agent's sampling temperature.
const TEMPERATURE = 1.0

// RESULTS_DIR is where experiments write their CSV files.
const RESULTS_DIR = "results"
