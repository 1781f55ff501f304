package types

// Epsilon used for floating point comparisons across the types package.
const floatCmpEpsilon float32 = 1e-6
