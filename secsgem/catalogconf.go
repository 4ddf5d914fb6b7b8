package secsgem

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/helios-fab/secsgem/secs2"
)

// svDef, dvDef, ... mirror the JSON shape a deployment's catalog file
// uses to describe its SV/DV/EC/CE/Alarm/RemoteCommand entities, so a
// handler can be configured without a recompile.
type svDef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Unit        string `json:"unit"`
	Format      string `json:"format"`
	UseCallback bool   `json:"useCallback"`
}

type dvDef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Format      string `json:"format"`
	UseCallback bool   `json:"useCallback"`
}

type ecDef struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Format  string `json:"format"`
	Unit    string `json:"unit"`
	Min     any    `json:"min"`
	Max     any    `json:"max"`
	Default any    `json:"default"`
}

type ceDef struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

type alarmDef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Text  string `json:"text"`
	Code  byte   `json:"code"`
	CEOn  string `json:"ceOn"`
	CEOff string `json:"ceOff"`
}

type rcmdDef struct {
	RCMD         string   `json:"rcmd"`
	Name         string   `json:"name"`
	ParamNames   []string `json:"paramNames"`
	CompletionCE string   `json:"completionCE"`
}

// catalogDoc is the top-level shape of a catalog JSON document.
type catalogDoc struct {
	SVs            []svDef    `json:"statusVariables"`
	DVs            []dvDef    `json:"dataValues"`
	ECs            []ecDef    `json:"equipmentConstants"`
	CEs            []ceDef    `json:"collectionEvents"`
	Alarms         []alarmDef `json:"alarms"`
	RemoteCommands []rcmdDef  `json:"remoteCommands"`
}

// LoadCatalogJSON parses a catalog document and registers every
// entity it describes into cat. Remote commands are registered
// without a Callback, since JSON cannot carry executable behavior, and
// Catalog exports no accessor to attach one afterward; an S2F41 for
// such a command is answered with HCACKInvalidCommand.
func LoadCatalogJSON(cat *Catalog, data []byte) error {
	var doc catalogDoc
	if err := jsoniter.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("secsgem: parsing catalog document: %w", err)
	}

	for _, d := range doc.SVs {
		format, err := parseFormat(d.Format)
		if err != nil {
			return fmt.Errorf("secsgem: SV %s: %w", d.ID, err)
		}
		cat.RegisterSV(&StatusVariable{ID: d.ID, Name: d.Name, Unit: d.Unit, WireFormat: format, UseCallback: d.UseCallback})
	}
	for _, d := range doc.DVs {
		format, err := parseFormat(d.Format)
		if err != nil {
			return fmt.Errorf("secsgem: DV %s: %w", d.ID, err)
		}
		cat.RegisterDV(&DataValue{ID: d.ID, Name: d.Name, WireFormat: format, UseCallback: d.UseCallback})
	}
	for _, d := range doc.ECs {
		format, err := parseFormat(d.Format)
		if err != nil {
			return fmt.Errorf("secsgem: EC %s: %w", d.ID, err)
		}
		cat.RegisterEC(&EquipmentConstant{ID: d.ID, Name: d.Name, Unit: d.Unit, WireFormat: format, Min: d.Min, Max: d.Max, Default: d.Default})
	}
	for _, d := range doc.CEs {
		members := make([]ID, len(d.Members))
		for i, m := range d.Members {
			members[i] = m
		}
		cat.RegisterCE(&CollectionEvent{ID: d.ID, Name: d.Name, Members: members})
	}
	for _, d := range doc.Alarms {
		a := &Alarm{ID: d.ID, Name: d.Name, Text: d.Text, Code: d.Code}
		if d.CEOn != "" {
			a.CEOn = d.CEOn
		}
		if d.CEOff != "" {
			a.CEOff = d.CEOff
		}
		cat.RegisterAlarm(a)
	}
	for _, d := range doc.RemoteCommands {
		rc := &RemoteCommand{RCMD: d.RCMD, Name: d.Name, ParamNames: d.ParamNames}
		if d.CompletionCE != "" {
			rc.CompletionCE = d.CompletionCE
		}
		cat.RegisterRemoteCommand(rc)
	}
	return nil
}

func parseFormat(name string) (secs2.Format, error) {
	switch name {
	case "A", "ascii":
		return secs2.FormatASCII, nil
	case "J", "jis8":
		return secs2.FormatJIS8, nil
	case "Bool", "boolean":
		return secs2.FormatBoolean, nil
	case "B", "binary":
		return secs2.FormatBinary, nil
	case "U1":
		return secs2.FormatU1, nil
	case "U2":
		return secs2.FormatU2, nil
	case "U4":
		return secs2.FormatU4, nil
	case "U8":
		return secs2.FormatU8, nil
	case "I1":
		return secs2.FormatI1, nil
	case "I2":
		return secs2.FormatI2, nil
	case "I4":
		return secs2.FormatI4, nil
	case "I8":
		return secs2.FormatI8, nil
	case "F4":
		return secs2.FormatF4, nil
	case "F8":
		return secs2.FormatF8, nil
	default:
		return 0, fmt.Errorf("unknown wire format %q", name)
	}
}
