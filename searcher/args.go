package searcher

// Hyperparameters for MCTS

const CSquared = 2.0 // Exploration constant c^2 in sqrt(c^2*ln(N)/n)

// Terminal outcomes from the terminal node's mover perspective
const WIN = 1.0
const LOSS = 0.0
