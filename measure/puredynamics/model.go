package puredynamics

// ModelVersion identifies the constant table of DefaultModel.
const ModelVersion = "pd-2.1"

// Model holds the empirically tuned constants of the pipeline.
type Model struct {
	// Init.
	SilenceOffsetDB     float64 // gate below integrated loudness
	SilenceGenreRangeDB float64 // extra gate depth for low genre factors
	SilenceFloorLUFS    float64

	// Loudness correction.
	EBUTargetLUFS      float64
	EBULinear          float64
	EBUNonlinear       float64
	EBUClampDB         float64
	HFBlend            float64
	HFGainDB           float64
	HFReference        float64
	FastlGainDB        float64
	FastlReference     float64
	FastlClampDB       float64
	SpecificBlend      float64
	RoughnessPerFlux   float64
	FluctuationPerDB   float64
	SharpnessReference float64

	// Preliminary transient score.
	PrelimWindowMin  int
	PrelimWindowMax  int
	PrelimSigma      float64
	PrelimDensityCap float64

	// Adaptation.
	AdaptStableDB      float64
	AdaptStrengthDB    float64
	AdaptTauSeconds    float64
	AdaptFlatnessScale float64
	AdaptFluxDamping   float64

	// Binaural.
	BinauralBaseDB  float64
	BinauralRangeDB float64

	// Transient detection.
	TransientAlpha      float64
	TransientSigma      float64
	TransientGenreSigma float64
	TransientPrelimBias float64
	TransientBoostCap   float64
	TransientBoostSlope float64
	RefractoryBlocks    int
	CompositeWeights    [6]float64 // flux, delta, centroid, tonality, harmonic, unmasked

	// Cognitive loudness.
	CognitiveTaus        [3]float64 // seconds
	CognitiveWeights     [4]float64 // contrast, rhythm, density, spectral
	CognitiveContrastDB  float64
	CognitiveEntropyMix  float64
	CognitiveStreamCapDB float64
	CognitiveMinCapDB    float64
	CognitiveMaxCapDB    float64

	// Transient application.
	MixBase        float64
	MixGenre       float64
	MixDensity     float64
	MixMin, MixMax float64
	BoostGainDB    float64

	// Spread.
	OfflineBaselineTau   float64
	StreamingBaselineTau float64
	SpreadFloorDB        float64
	KurtosisScale        float64
	MaskingRangeDB       float64
	IQRWeight            float64
	ShortWindowShare     float64
	GenreSpreadBase      float64
	GenreSpreadSlope     float64
}

// DefaultModel is the constant table identified by ModelVersion.
var DefaultModel = Model{
	SilenceOffsetDB:     18,
	SilenceGenreRangeDB: 12,
	SilenceFloorLUFS:    -70,

	EBUTargetLUFS:      -23,
	EBULinear:          0.08,
	EBUNonlinear:       0.004,
	EBUClampDB:         3,
	HFBlend:            0.3,
	HFGainDB:           4,
	HFReference:        0.15,
	FastlGainDB:        3,
	FastlReference:     0.45,
	FastlClampDB:       1.5,
	SpecificBlend:      0.25,
	RoughnessPerFlux:   2.5,
	FluctuationPerDB:   0.25,
	SharpnessReference: 1.5,

	PrelimWindowMin:  3,
	PrelimWindowMax:  20,
	PrelimSigma:      2,
	PrelimDensityCap: 0.2,

	AdaptStableDB:      1,
	AdaptStrengthDB:    2,
	AdaptTauSeconds:    4,
	AdaptFlatnessScale: 1,
	AdaptFluxDamping:   2,

	BinauralBaseDB:  2,
	BinauralRangeDB: 2.5,

	TransientAlpha:      0.1,
	TransientSigma:      1.5,
	TransientGenreSigma: 0.5,
	TransientPrelimBias: 0.3,
	TransientBoostCap:   2.5,
	TransientBoostSlope: 0.5,
	RefractoryBlocks:    3,
	CompositeWeights:    [6]float64{0.3, 0.25, 0.1, 0.1, 0.1, 0.15},

	CognitiveTaus:        [3]float64{0.1, 1, 10},
	CognitiveWeights:     [4]float64{0.4, 0.2, 0.2, 0.2},
	CognitiveContrastDB:  12,
	CognitiveEntropyMix:  0.2,
	CognitiveStreamCapDB: 3,
	CognitiveMinCapDB:    2,
	CognitiveMaxCapDB:    5,

	MixBase:     0.3,
	MixGenre:    0.3,
	MixDensity:  0.2,
	MixMin:      0.2,
	MixMax:      0.8,
	BoostGainDB: 6,

	OfflineBaselineTau:   30,
	StreamingBaselineTau: 10,
	SpreadFloorDB:        -80,
	KurtosisScale:        10,
	MaskingRangeDB:       20,
	IQRWeight:            0.7,
	ShortWindowShare:     0.6,
	GenreSpreadBase:      0.9,
	GenreSpreadSlope:     0.2,
}
