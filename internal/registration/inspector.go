package registration

import (
	"fmt"
	"strings"

	"github.com/comreg-labs/comreg/internal/component"
	"github.com/comreg-labs/comreg/internal/profile"
	"github.com/comreg-labs/comreg/internal/winreg"
)

// Inspector derives registration records from the registry. Each variant is
// looked up under its own CLSID and registry view.
type Inspector struct {
	store  winreg.Store
	clsids map[component.Variant]string
}

// NewInspector returns an Inspector for the given registry-form CLSIDs.
func NewInspector(store winreg.Store, clsids map[component.Variant]string) *Inspector {
	return &Inspector{store: store, clsids: clsids}
}

// NewInspectorForProfile takes the CLSIDs from p.
func NewInspectorForProfile(store winreg.Store, p *profile.Profile) (*Inspector, error) {
	clsids := make(map[component.Variant]string, len(component.Variants))
	for _, v := range component.Variants {
		clsid, err := p.CLSID(v)
		if err != nil {
			return nil, err
		}
		clsids[v] = clsid
	}
	return NewInspector(store, clsids), nil
}

func (i *Inspector) clsid(v component.Variant) (string, error) {
	if !v.Valid() {
		return "", fmt.Errorf("invalid variant %s", v)
	}
	clsid, ok := i.clsids[v]
	if !ok || clsid == "" {
		return "", fmt.Errorf("no CLSID configured for %s", v)
	}
	return clsid, nil
}

// IsRegistered reports whether the variant's CLSID key exists. Whether a
// path is recorded under it does not matter.
func (i *Inspector) IsRegistered(v component.Variant) (bool, error) {
	clsid, err := i.clsid(v)
	if err != nil {
		return false, err
	}
	ok, err := i.store.KeyExists(v.ClassKey(clsid))
	if err != nil {
		return false, fmt.Errorf("checking %s registration: %w", v, err)
	}
	return ok, nil
}

// RegisteredPath returns the DLL path recorded in the InprocServer32
// default value. ok is false when the component is not registered or the
// value is missing or blank.
func (i *Inspector) RegisteredPath(v component.Variant) (path string, ok bool, err error) {
	registered, err := i.IsRegistered(v)
	if err != nil || !registered {
		return "", false, err
	}
	clsid, _ := i.clsid(v)
	val, found, err := i.store.StringValue(v.ServerKey(clsid), "")
	if err != nil {
		return "", false, fmt.Errorf("reading %s server path: %w", v, err)
	}
	val = strings.TrimSpace(val)
	if !found || val == "" {
		return "", false, nil
	}
	return val, true, nil
}

// Record combines IsRegistered and RegisteredPath.
func (i *Inspector) Record(v component.Variant) (component.Record, error) {
	registered, err := i.IsRegistered(v)
	if err != nil {
		return component.Record{}, err
	}
	rec := component.Record{Variant: v, Registered: registered}
	if registered {
		path, _, err := i.RegisteredPath(v)
		if err != nil {
			return component.Record{}, err
		}
		rec.Path = path
	}
	return rec, nil
}
