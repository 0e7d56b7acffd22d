package clocks

// RefreshRate is the number of frames generated per second. the delay and
// sound timers are decremented at this rate
const RefreshRate = 60

// DefaultStepsPerFrame is the number of interpreter steps executed between
// two timer ticks unless the host asks for a different speed. the value is
// the conventional speed for games written for the original COSMAC VIP
// interpreter
const DefaultStepsPerFrame = 10

// StepsPerSecond for the default speed setting
const StepsPerSecond = DefaultStepsPerFrame * RefreshRate
