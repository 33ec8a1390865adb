package dsp

import "math"

// Default reference/floor values, matching decibel.rs.
const (
	RefDefault       = 1.0
	AminAmpDefault   = 1e-18
	AminPowerDefault = 1e-36
)

// Ref selects either a fixed scalar reference or "use the slice max".
type Ref struct {
	Value   float64
	UseMax  bool
}

func RefValue(v float64) Ref { return Ref{Value: v} }
func RefMax() Ref            { return Ref{UseMax: true} }

func logForDB(x []float32, ref Ref, amin float64) {
	refValue := ref.Value
	if ref.UseMax {
		m := math.Inf(-1)
		for _, v := range x {
			if float64(v) > m {
				m = float64(v)
			}
		}
		refValue = m
	}
	if refValue < 0 {
		refValue = -refValue
	}
	logAmin := math.Log10(amin)
	logRef := logAmin
	if refValue > amin {
		logRef = math.Log10(refValue)
	}
	for i, v := range x {
		vf := float64(v)
		if vf > amin {
			x[i] = float32(math.Log10(vf) - logRef)
		} else {
			x[i] = float32(logAmin - logRef)
		}
	}
}

// AmpToDB converts an amplitude slice to dB in place: 20*log10(x/ref).
func AmpToDB(x []float32, ref Ref, amin float64) {
	logForDB(x, ref, amin)
	for i := range x {
		x[i] *= 20
	}
}

// PowerToDB converts a power slice to dB in place: 10*log10(x/ref).
func PowerToDB(x []float32, ref Ref, amin float64) {
	logForDB(x, ref, amin)
	for i := range x {
		x[i] *= 10
	}
}

// AmpToDBDefault uses REF_DEFAULT=1 and AMIN_AMP_DEFAULT=1e-18.
func AmpToDBDefault(x []float32) { AmpToDB(x, RefValue(RefDefault), AminAmpDefault) }

// PowerToDBDefault uses REF_DEFAULT=1 and AMIN_POWER_DEFAULT=1e-36.
func PowerToDBDefault(x []float32) { PowerToDB(x, RefValue(RefDefault), AminPowerDefault) }

// DBToAmp is the exact inverse of AmpToDB for in-range inputs.
func DBToAmp(x []float32, refValue float64) {
	for i, v := range x {
		x[i] = float32(refValue * math.Pow(10, 0.05*float64(v)))
	}
}

// DBToPower is the exact inverse of PowerToDB for in-range inputs.
func DBToPower(x []float32, refValue float64) {
	for i, v := range x {
		x[i] = float32(refValue * math.Pow(10, 0.1*float64(v)))
	}
}

func DBToAmpDefault(x []float32)   { DBToAmp(x, RefDefault) }
func DBToPowerDefault(x []float32) { DBToPower(x, RefDefault) }
