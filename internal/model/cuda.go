//go:build cuda

package model

import "gocv.io/x/gocv/cuda"

func cudaDeviceCount() (int, error) {
	return cuda.GetCudaEnabledDeviceCount(), nil
}
