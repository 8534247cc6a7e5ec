package proto

import "math"

func math32frombits(v uint32) float32 { return math.Float32frombits(v) }
func math32bits(v float32) uint32     { return math.Float32bits(v) }
func math64frombits(v uint64) float64 { return math.Float64frombits(v) }
func math64bits(v float64) uint64     { return math.Float64bits(v) }
