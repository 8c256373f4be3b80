//go:build linux

/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cmd

import (
	perf "github.com/hodgesds/perf-utils"
)

// countInstructions runs f under the retired instruction counter. When the
// counter cannot be opened f still runs and counted is false.
func countInstructions(f func() error) (instructions uint64, counted bool, err error) {
	var (
		ran   bool
		runFn = func() error {
			ran = true
			err = f()
			return err
		}
		pv      *perf.ProfileValue
		perfErr error
	)
	pv, perfErr = perf.CPUInstructions(runFn)
	switch {
	case !ran:
		err = f()
	case perfErr == nil && pv != nil:
		instructions, counted = pv.Value, true
	}
	return
}
