// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tokoadmin Contributors

package listview_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
)

func TestListview(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Listview Suite")
}
