// Package analysis looks at time series recorded from the drum.
//
//   - [PowerSpectrum]: magnitude spectrum of a real series, mean removed
//   - [DominantFrequency]: the strongest non-DC component
//   - [Occupancy]: where in the drum the balls spend their time
//
// The bench command samples kinetic energy once per frame and reports the
// dominant frequency, which shows how regularly the wind and gravity pump
// energy into the drum:
//
//	f, _ := analysis.DominantFrequency(energy, 60)
package analysis
