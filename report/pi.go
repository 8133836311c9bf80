package report

import (
	"context"
	"fmt"

	"kastelo.dev/iak"
	"kastelo.dev/iak/batch"
	"kastelo.dev/iak/config"
	"kastelo.dev/iak/excel"
	"kastelo.dev/iak/voortgang"
)

// PI populates the newest inspection report of every object, saves it as
// "PI rapport <code>.xlsx" and exports it to PDF. The progress list is
// required.
func (e *Env) PI(ctx context.Context) (batch.Summary, error) {
	if e.Config.VoortgangsSheet == "" {
		return batch.Summary{}, fmt.Errorf("%w: voortgangs_sheet is not configured", iak.ErrMissingFile)
	}
	list, err := e.progressList()
	if err != nil {
		return batch.Summary{}, err
	}
	return e.runBatch(ctx, KindPI, func(ctx context.Context, obj iak.Object) (iak.GeneratedDocument, error) {
		return e.PIObject(ctx, list, obj)
	})
}

func (e *Env) PIObject(ctx context.Context, list *voortgang.List, obj iak.Object) (iak.GeneratedDocument, error) {
	doc := iak.GeneratedDocument{Object: obj.Code, Kind: KindPI}
	l := e.logger().With("object", obj.Code)
	rec, err := list.Lookup(obj.Code)
	if err != nil {
		return doc, err
	}
	src, err := iak.Newest(obj.Dir, iak.InspectionReport)
	if err != nil {
		return doc, err
	}
	l.Info("Populating inspection report", "path", src)

	doc.Document, _, err = excel.WritePI(src, e.Config.SaveLoc(obj), PIVariables(e.Config, rec), e.now())
	if err != nil {
		return doc, err
	}
	l.Info("PI report written", "path", doc.Document)
	doc.PDF, err = e.toPDF(ctx, doc.Document, "", false)
	return doc, err
}

// PIVariables combines the report variables of the configuration with
// the progress record of an object.
func PIVariables(cfg *config.Config, rec voortgang.Record) excel.PIVariables {
	v := cfg.Variables
	return excel.PIVariables{
		Opdrachtgever:     v.Opdrachtgever,
		ContactpersoonRWS: v.ContactpersoonRWS,
		Zaaknummer:        v.Zaaknummer,
		Versie:            v.Versie,
		Datum:             v.Datum,
		Omschrijving:      v.Omschrijving,
		Opdrachtnemer:     v.Opdrachtnemer,
		Projectleider:     v.Projectleider,
		Projectnummer:     v.Projectnummer,

		Opsteller:           rec.Opsteller,
		Kwaliteitsbeheerder: rec.Kwaliteitsbeheerder,
		Inspecteurs:         rec.Inspecteurs,

		VenR:                     rec.VenR,
		NaderOnderzoek:           rec.NaderOnderzoek,
		DirecteMaatregel:         rec.DirecteMaatregel,
		NietSchadeGerelateerd:    rec.NietSchadeGerelateerd,
		ConstructieveBeoordeling: rec.ConstructieveBeoordeling,

		ObjectCode:  rec.ObjectCode,
		ComplexCode: rec.ComplexCode,
		ObjectNaam:  rec.ObjectNaam,
	}
}
