// Standard attribute keys for log records emitted by the numeric core.
//
// Keys follow a hierarchical naming convention ("model.name",
// "data.samples") so records from ridge fits and PCA runs can be filtered
// the same way.

package log

// Model and operation context.
const (
	// ModelNameKey identifies the model type, e.g. "Ridge", "PCA".
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is logging, e.g. "linear.ridge".
	ComponentKey = "ml.component"
)

// Data shape. Matrices are feature-major, so features are rows and samples
// are columns.
const (
	SamplesKey  = "data.samples"
	FeaturesKey = "data.features"
)

// Performance and quality.
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// LossKey records a loss value such as the mean squared error.
	LossKey = "metrics.loss"
)

// Hyperparameters and solver details.
const (
	// RegularizationKey records the ridge regularization strength.
	RegularizationKey = "hyperparams.regularization"

	// SolverKey records which least-squares path was used ("qr" or "svd").
	SolverKey = "linear.solver"

	// RankKey records the numerical rank of a design matrix.
	RankKey = "linear.rank"

	// ScaleDataKey records whether PCA scales features to unit variance.
	ScaleDataKey = "pca.scale_data"

	// ComponentsKey records how many principal components were retained.
	ComponentsKey = "pca.components"

	// VarianceRetainedKey records the retained variance fraction.
	VarianceRetainedKey = "pca.variance_retained"
)

// Error context.
const (
	ErrorCodeKey = "error.code"
)

// Standard attribute values.
const (
	OperationFit       = "fit"
	OperationPredict   = "predict"
	OperationTransform = "transform"
	OperationReduce    = "reduce"
	OperationScore     = "score"

	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorInvalidInput      = "INVALID_INPUT"
	ErrorRankDeficient     = "RANK_DEFICIENT"
)
