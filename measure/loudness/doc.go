// Package loudness implements ITU-R BS.1770 / EBU R128 loudness
// integration over K-weighted power.
//
// Weighted power arrives in 100 ms steps. Four steps form the 400 ms
// momentary gating block (75 % overlap), thirty steps the 3 s short-term
// window. Integrated loudness and loudness range are evaluated from
// 0.1 dB histograms so that both the whole-track and the bounded
// real-time variants cost a constant amount of work per query.
package loudness
