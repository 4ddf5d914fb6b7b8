package secsgem

import (
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

func TestReportSuite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "report engine ack matrix")
}

var _ = Describe("ReportEngine", func() {
	var (
		cat *Catalog
		e   *ReportEngine
	)

	BeforeEach(func() {
		cat = NewCatalog()
		cat.RegisterSV(&StatusVariable{ID: "SV1", Value: uint64(1)})
		cat.RegisterCE(&CollectionEvent{ID: "CE1"})
		e = NewReportEngine(cat)
	})

	Describe("DefineReport (S2F33)", func() {
		runDefineReport := func(rptID ID, vids []ID, preDefine bool, want uint8) {
			if preDefine {
				Expect(e.DefineReport(rptID, vids)).To(Equal(DefineReportOK))
			}
			Expect(e.DefineReport(rptID, vids)).To(Equal(want))
		}

		DescribeTable("ack matrix",
			runDefineReport,
			Entry("new report with known VID -> ack 0", ID("RPT1"), []ID{"SV1"}, false, DefineReportOK),
			Entry("duplicate RPTID -> ack 3", ID("RPT1"), []ID{"SV1"}, true, DefineReportAlreadyExists),
			Entry("unknown VID -> ack 4", ID("RPT1"), []ID{"NOSUCH"}, false, DefineReportUnknownVID),
		)

		It("clears every report and link on an empty DATA list", func() {
			Expect(e.DefineReport("RPT1", []ID{"SV1"})).To(Equal(DefineReportOK))
			Expect(e.LinkReport("CE1", []ID{"RPT1"})).To(Equal(LinkReportOK))

			Expect(e.ClearAllReports()).To(Equal(DefineReportOK))
			Expect(cat.rpts).To(BeEmpty())
			Expect(cat.links).To(BeEmpty())
		})

		It("deletes a report named with an empty VID list", func() {
			Expect(e.DefineReport("RPT1", []ID{"SV1"})).To(Equal(DefineReportOK))
			Expect(e.DefineReport("RPT1", nil)).To(Equal(DefineReportOK))
			_, ok := cat.rpts["RPT1"]
			Expect(ok).To(BeFalse())
		})
	})

	Describe("LinkReport (S2F35)", func() {
		BeforeEach(func() {
			Expect(e.DefineReport("RPT1", []ID{"SV1"})).To(Equal(DefineReportOK))
		})

		It("links a known report to a known CE", func() {
			Expect(e.LinkReport("CE1", []ID{"RPT1"})).To(Equal(LinkReportOK))
		})

		It("refuses an unknown CE with ack 5", func() {
			Expect(e.LinkReport("NOSUCH", []ID{"RPT1"})).To(Equal(LinkReportUnknownCE))
		})

		It("refuses an unknown RPTID with ack 4", func() {
			Expect(e.LinkReport("CE1", []ID{"NOSUCH"})).To(Equal(LinkReportUnknownRPT))
		})

		It("refuses a duplicate link with ack 3", func() {
			Expect(e.LinkReport("CE1", []ID{"RPT1"})).To(Equal(LinkReportOK))
			Expect(e.LinkReport("CE1", []ID{"RPT1"})).To(Equal(LinkReportAlreadyLinked))
		})

		It("unlinks every report from a CE given an empty RPTID list", func() {
			Expect(e.LinkReport("CE1", []ID{"RPT1"})).To(Equal(LinkReportOK))
			Expect(e.LinkReport("CE1", nil)).To(Equal(LinkReportOK))
			Expect(cat.links["CE1"]).To(BeEmpty())
		})
	})

	Describe("EnableEvents (S2F37)", func() {
		It("enables a known CE with ack 0", func() {
			Expect(e.EnableEvents(true, []ID{"CE1"})).To(Equal(EnableEventsOK))
		})

		It("refuses an unknown CE with ack 1", func() {
			Expect(e.EnableEvents(true, []ID{"NOSUCH"})).To(Equal(EnableEventsUnknownCE))
		})

		It("targets every known CE given an empty list", func() {
			Expect(e.EnableEvents(true, nil)).To(Equal(EnableEventsOK))
			Expect(cat.enabled["CE1"]).To(BeTrue())
		})
	})
})
