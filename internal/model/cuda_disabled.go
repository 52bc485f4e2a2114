//go:build !cuda

package model

import "errors"

func cudaDeviceCount() (int, error) {
	return 0, errors.New("built without the cuda tag")
}
