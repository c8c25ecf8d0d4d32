package decomposition_test

import (
	"fmt"
	"log"
	"os"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/ridgepca/decomposition"
)

func ExamplePCA_ReduceToVariance() {
	// feature 2 is exactly twice feature 1
	data := mat.NewDense(2, 5, []float64{
		1, 2, 3, 4, 5,
		2, 4, 6, 8, 10,
	})

	reduced, retained, err := decomposition.New(false).ReduceToVariance(data, 0.99)
	if err != nil {
		log.Fatal(err)
	}
	rows, cols := reduced.Dims()
	fmt.Printf("%dx%d %.3f\n", rows, cols, retained)
	// Output: 1x5 1.000
}

func ExampleWriteSummary() {
	res, err := decomposition.New(true).Apply(mat.NewDense(3, 6, []float64{
		1, 2, 3, 4, 5, 6,
		2, 1, 4, 3, 6, 5,
		0, 0, 1, 1, 0, 0,
	}))
	if err != nil {
		log.Fatal(err)
	}
	if err := decomposition.WriteSummary(os.Stdout, res.Eigenvalues); err != nil {
		log.Fatal(err)
	}
}
