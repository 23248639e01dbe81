package client

import (
	"context"

	"github.com/DoyleJ11/sheet-sync/pkg/viewmodel"
)

// SheetResync refetches one character's full sheet into r.
func SheetResync(f *Fetcher, characterID int, r *viewmodel.Reducer) func(context.Context) error {
	return func(ctx context.Context) error {
		s, err := f.Sheet(ctx, characterID)
		if err != nil {
			return err
		}
		r.Reset(s)
		return nil
	}
}

// PortraitResync refetches the public portrait baseline into r.
func PortraitResync(f *Fetcher, characterID int, r *viewmodel.Reducer) func(context.Context) error {
	return func(ctx context.Context) error {
		s, err := f.Portrait(ctx, characterID)
		if err != nil {
			return err
		}
		r.Reset(s)
		return nil
	}
}

// RosterResync refetches the character list and every sheet the roster
// tracks.
func RosterResync(f *Fetcher, r *viewmodel.Roster) func(context.Context) error {
	return func(ctx context.Context) error {
		cs, err := f.Characters(ctx)
		if err != nil {
			return err
		}
		r.Reset(cs)
		for _, c := range cs {
			red, ok := r.Sheet(c.ID)
			if !ok {
				continue
			}
			s, err := f.Sheet(ctx, c.ID)
			if err != nil {
				return err
			}
			red.Reset(s)
		}
		return nil
	}
}
