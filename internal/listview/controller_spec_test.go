// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tokoadmin Contributors

package listview_test

import (
	"context"
	"encoding/json"
	"sync"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/tokoadmin/tokoadmin/internal/api"
	"github.com/tokoadmin/tokoadmin/internal/apierror"
	"github.com/tokoadmin/tokoadmin/internal/listview"
	"github.com/tokoadmin/tokoadmin/internal/notify/notifytest"
)

// fakeCatalog scripts list and destroy outcomes and counts calls.
type fakeCatalog struct {
	mu           sync.Mutex
	listOutcome  api.Outcome
	destroyOut   api.Outcome
	listCalls    int
	destroyCalls int
	destroyedIDs []string
}

func (f *fakeCatalog) List(context.Context, string) api.Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	return f.listOutcome
}

func (f *fakeCatalog) Destroy(_ context.Context, _, id string) api.Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destroyCalls++
	f.destroyedIDs = append(f.destroyedIDs, id)
	return f.destroyOut
}

func listPayload(inner string) api.Outcome {
	return api.Success(json.RawMessage(`{"error":false,"data":{"message":"OK","data":` + inner + `}}`))
}

var _ = Describe("Controller", func() {
	var (
		catalog  *fakeCatalog
		recorder *notifytest.Recorder
		ctrl     *listview.Controller
		visited  []string
	)

	newCtrl := func(opts ...listview.ControllerOption) *listview.Controller {
		opts = append(opts, listview.WithNavigator(func(path string) {
			visited = append(visited, path)
		}))
		c, err := listview.NewController("product", catalog, recorder, opts...)
		Expect(err).NotTo(HaveOccurred())
		return c
	}

	BeforeEach(func() {
		catalog = &fakeCatalog{
			listOutcome: listPayload(`[]`),
			destroyOut:  api.Success(nil),
		}
		recorder = &notifytest.Recorder{}
		visited = nil
		ctrl = nil
	})

	Describe("Load", func() {
		It("starts idle", func() {
			ctrl = newCtrl()
			Expect(ctrl.State()).To(Equal(listview.StateIdle))
		})

		It("reaches Empty for a zero-row payload", func() {
			ctrl = newCtrl()
			ctrl.Load(context.Background())
			Expect(ctrl.State()).To(Equal(listview.StateEmpty))
			Expect(ctrl.Rows()).To(BeEmpty())
		})

		It("reaches Populated with rows in backend order", func() {
			catalog.listOutcome = listPayload(`[{"id":2,"name":"B"},{"id":1,"name":"A"}]`)
			ctrl = newCtrl()
			ctrl.Load(context.Background())

			Expect(ctrl.State()).To(Equal(listview.StatePopulated))
			rows := ctrl.Rows()
			Expect(rows).To(HaveLen(2))
			Expect(rows[0].ID).To(Equal("2"))
			Expect(rows[1].ID).To(Equal("1"))
			Expect(rows[0].Fields["name"]).To(Equal("B"))
		})

		It("normalizes string ids", func() {
			catalog.listOutcome = listPayload(`[{"id":"abc","name":"A"}]`)
			ctrl = newCtrl()
			ctrl.Load(context.Background())

			Expect(ctrl.Rows()[0].ID).To(Equal("abc"))
		})

		It("reaches Errored and notifies on a failed fetch", func() {
			catalog.listOutcome = api.Failed(apierror.Transport(""))
			ctrl = newCtrl()
			ctrl.Load(context.Background())

			Expect(ctrl.State()).To(Equal(listview.StateErrored))
			Expect(recorder.Errors()).To(ConsistOf("Something went wrong"))
		})

		It("reaches Errored on an undecodable payload", func() {
			catalog.listOutcome = api.Success(json.RawMessage(`not json`))
			ctrl = newCtrl()
			ctrl.Load(context.Background())

			Expect(ctrl.State()).To(Equal(listview.StateErrored))
			Expect(recorder.Errors()).To(ConsistOf("Failed to load product"))
		})

		It("treats a missing row identity as a data error", func() {
			catalog.listOutcome = listPayload(`[{"name":"no id"}]`)
			ctrl = newCtrl()
			ctrl.Load(context.Background())

			Expect(ctrl.State()).To(Equal(listview.StateErrored))
			Expect(recorder.Errors()).To(ConsistOf("Failed to load product"))
		})

		It("substitutes the row index under positional fallback", func() {
			catalog.listOutcome = listPayload(`[{"name":"first"},{"id":7,"name":"second"}]`)
			ctrl = newCtrl(listview.WithPositionalFallback())
			ctrl.Load(context.Background())

			Expect(ctrl.State()).To(Equal(listview.StatePopulated))
			rows := ctrl.Rows()
			Expect(rows[0].ID).To(Equal("0"))
			Expect(rows[1].ID).To(Equal("7"))
		})

		It("navigates instead of notifying on session expiry", func() {
			out := api.Failed(apierror.Classification{Kind: apierror.KindSessionExpired})
			out.RedirectTo = "/login"
			catalog.listOutcome = out

			ctrl = newCtrl()
			ctrl.Load(context.Background())

			Expect(ctrl.State()).To(Equal(listview.StateErrored))
			Expect(visited).To(ConsistOf("/login"))
			Expect(recorder.Errors()).To(BeEmpty())
		})

		It("raises one notification per offending field", func() {
			catalog.listOutcome = api.Failed(apierror.Classification{
				Kind: apierror.KindValidation,
				Fields: []apierror.FieldError{
					{Field: "email", Messages: []string{"must be valid", "too long"}},
					{Field: "password", Messages: []string{"too short"}},
				},
			})
			ctrl = newCtrl()
			ctrl.Load(context.Background())

			Expect(recorder.Errors()).To(Equal([]string{"must be valid", "too short"}))
		})
	})

	Describe("Refresh", func() {
		It("re-fetches from the backend", func() {
			ctrl = newCtrl()
			ctrl.Load(context.Background())
			ctrl.Refresh(context.Background())
			Expect(catalog.listCalls).To(Equal(2))
		})
	})

	Describe("selection", func() {
		It("records and clears the delete target", func() {
			ctrl = newCtrl()
			Expect(ctrl.Selection()).To(BeNil())

			ctrl.Select("42", "Blue Widget")
			sel := ctrl.Selection()
			Expect(sel).NotTo(BeNil())
			Expect(sel.ID).To(Equal("42"))
			Expect(sel.Name).To(Equal("Blue Widget"))

			ctrl.ClearSelection()
			Expect(ctrl.Selection()).To(BeNil())
		})
	})

	Describe("ConfirmDelete", func() {
		It("deletes the selected record and re-fetches", func() {
			ctrl = newCtrl()
			ctrl.Select("42", "Blue Widget")
			ctrl.ConfirmDelete(context.Background())

			Expect(catalog.destroyedIDs).To(ConsistOf("42"))
			Expect(recorder.Successes()).To(ConsistOf("Deleted Blue Widget"))
			Expect(ctrl.Selection()).To(BeNil())
			Expect(catalog.listCalls).To(Equal(1), "re-fetch after mutation")
		})

		It("rejects an empty selection without a network call", func() {
			ctrl = newCtrl()
			ctrl.ConfirmDelete(context.Background())

			Expect(catalog.destroyCalls).To(BeZero())
			Expect(recorder.Errors()).To(ConsistOf("Record ID not found"))
		})

		It("rejects a selection with an empty id without a network call", func() {
			ctrl = newCtrl()
			ctrl.Select("", "Nameless")
			ctrl.ConfirmDelete(context.Background())

			Expect(catalog.destroyCalls).To(BeZero())
			Expect(recorder.Errors()).To(ConsistOf("Record ID not found"))
		})

		It("keeps the selection when the delete fails", func() {
			catalog.destroyOut = api.Failed(apierror.Classification{
				Kind:    apierror.KindGeneric,
				Message: "Record is referenced elsewhere",
			})
			ctrl = newCtrl()
			ctrl.Select("42", "Blue Widget")
			ctrl.ConfirmDelete(context.Background())

			Expect(recorder.Errors()).To(ConsistOf("Record is referenced elsewhere"))
			Expect(ctrl.Selection()).NotTo(BeNil())
			Expect(catalog.listCalls).To(BeZero(), "no re-fetch on failure")
		})

		It("navigates on session expiry during delete", func() {
			out := api.Failed(apierror.Classification{Kind: apierror.KindSessionExpired})
			out.RedirectTo = "/login"
			catalog.destroyOut = out

			ctrl = newCtrl()
			ctrl.Select("42", "Blue Widget")
			ctrl.ConfirmDelete(context.Background())

			Expect(visited).To(ConsistOf("/login"))
			Expect(recorder.Successes()).To(BeEmpty())
		})
	})
})
