package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

func (s *StorageTestSuite) TestNewSamples() {
	for _, db := range s.getTestDB() {
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			defer db.Exec("DROP TABLE samples")

			samples, err := NewSamples(context.Background(), db)
			s.Require().NoError(err)
			s.NotNil(samples)

			// second init goes through migration
			samples, err = NewSamples(context.Background(), db)
			s.Require().NoError(err)
			s.NotNil(samples)

			samples, err = NewSamples(context.Background(), nil)
			s.Error(err)
			s.Nil(samples)
		})
	}
}

func (s *StorageTestSuite) TestSamples_Add() {
	ctx := context.Background()
	for _, db := range s.getTestDB() {
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			samples, err := NewSamples(ctx, db)
			s.Require().NoError(err)
			defer db.Exec("DROP TABLE samples")

			tests := []struct {
				name    string
				class   int
				origin  SampleOrigin
				message string
				wantErr bool
			}{
				{name: "preset class 0", class: 0, origin: SampleOriginPreset, message: "THE CAT"},
				{name: "user class 2", class: 2, origin: SampleOriginUser, message: "EL GATO"},
				{name: "negative class", class: -1, origin: SampleOriginUser, message: "X", wantErr: true},
				{name: "any origin", class: 0, origin: SampleOriginAny, message: "X", wantErr: true},
				{name: "bad origin", class: 0, origin: "bad", message: "X", wantErr: true},
				{name: "empty message", class: 0, origin: SampleOriginUser, message: "", wantErr: true},
			}
			for _, tt := range tests {
				s.Run(tt.name, func() {
					err := samples.Add(ctx, tt.class, tt.origin, tt.message)
					if tt.wantErr {
						s.Error(err)
						return
					}
					s.NoError(err)
				})
			}

			// the same message in another class is a separate sample
			s.Require().NoError(samples.Add(ctx, 1, SampleOriginUser, "THE CAT"))
			res, err := samples.Read(ctx, 1, SampleOriginAny)
			s.Require().NoError(err)
			s.Equal([]string{"THE CAT"}, res)
			res, err = samples.Read(ctx, 0, SampleOriginPreset)
			s.Require().NoError(err)
			s.Equal([]string{"THE CAT"}, res)

			// re-adding to the same class replaces origin, no duplicates
			s.Require().NoError(samples.Add(ctx, 0, SampleOriginUser, "THE CAT"))
			res, err = samples.Read(ctx, 0, SampleOriginAny)
			s.Require().NoError(err)
			s.Equal([]string{"THE CAT"}, res)
			res, err = samples.Read(ctx, 0, SampleOriginUser)
			s.Require().NoError(err)
			s.Equal([]string{"THE CAT"}, res)
		})
	}
}

func (s *StorageTestSuite) TestSamples_ReadAndIterate() {
	ctx := context.Background()
	for _, db := range s.getTestDB() {
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			samples, err := NewSamples(ctx, db)
			s.Require().NoError(err)
			defer db.Exec("DROP TABLE samples")

			s.Require().NoError(samples.Add(ctx, 0, SampleOriginPreset, "ONE"))
			s.Require().NoError(samples.Add(ctx, 1, SampleOriginPreset, "TWO"))
			s.Require().NoError(samples.Add(ctx, 0, SampleOriginUser, "THREE"))
			s.Require().NoError(samples.Add(ctx, 2, SampleOriginUser, "FOUR"))

			res, err := samples.Read(ctx, 0, SampleOriginAny)
			s.Require().NoError(err)
			s.Equal([]string{"ONE", "THREE"}, res)

			res, err = samples.Read(ctx, AnyClass, SampleOriginUser)
			s.Require().NoError(err)
			s.Equal([]string{"THREE", "FOUR"}, res)

			res, err = samples.Read(ctx, 5, SampleOriginAny)
			s.Require().NoError(err)
			s.Empty(res)

			_, err = samples.Read(ctx, 0, "bad")
			s.Error(err)

			it, err := samples.Iterator(ctx, SampleOriginAny)
			s.Require().NoError(err)
			var got []string
			for sample := range it {
				s.NotZero(sample.ID)
				got = append(got, fmt.Sprintf("%d:%s:%s", sample.Class, sample.Origin, sample.Message))
			}
			s.Equal([]string{"0:preset:ONE", "1:preset:TWO", "0:user:THREE", "2:user:FOUR"}, got)

			it, err = samples.Iterator(ctx, SampleOriginPreset)
			s.Require().NoError(err)
			count := 0
			for range it {
				count++
				break // early exit closes rows
			}
			s.Equal(1, count)

			cctx, cancel := context.WithCancel(ctx)
			it, err = samples.Iterator(cctx, SampleOriginAny)
			s.Require().NoError(err)
			cancel()
			count = 0
			for range it {
				count++
			}
			s.Zero(count)
		})
	}
}

func (s *StorageTestSuite) TestSamples_Delete() {
	ctx := context.Background()
	for _, db := range s.getTestDB() {
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			samples, err := NewSamples(ctx, db)
			s.Require().NoError(err)
			defer db.Exec("DROP TABLE samples")

			s.Require().NoError(samples.Add(ctx, 0, SampleOriginUser, "ONE"))
			s.Require().NoError(samples.Add(ctx, 1, SampleOriginUser, "TWO"))

			s.Require().NoError(samples.Add(ctx, 2, SampleOriginPreset, "ONE"))

			// class and origin scope the delete
			err = samples.DeleteMessage(ctx, 1, SampleOriginUser, "ONE")
			s.True(errors.Is(err, ErrSampleNotFound))
			err = samples.DeleteMessage(ctx, 2, SampleOriginUser, "ONE")
			s.True(errors.Is(err, ErrSampleNotFound))
			s.Require().NoError(samples.DeleteMessage(ctx, 0, SampleOriginUser, "ONE"))
			s.True(errors.Is(samples.DeleteMessage(ctx, 0, SampleOriginUser, "ONE"), ErrSampleNotFound))
			s.Error(samples.DeleteMessage(ctx, 2, "bad", "ONE"))
			s.Require().NoError(samples.DeleteMessage(ctx, AnyClass, SampleOriginAny, "ONE"))

			var id int64
			s.Require().NoError(db.Get(&id, db.Adopt("SELECT id FROM samples WHERE message = ?"), "TWO"))
			s.Require().NoError(samples.Delete(ctx, id))
			s.True(errors.Is(samples.Delete(ctx, id), ErrSampleNotFound))

			st, err := samples.Stats(ctx)
			s.Require().NoError(err)
			s.Zero(st.Total)
		})
	}
}

func (s *StorageTestSuite) TestSamples_ImportAndStats() {
	ctx := context.Background()
	for _, db := range s.getTestDB() {
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			samples, err := NewSamples(ctx, db)
			s.Require().NoError(err)
			defer db.Exec("DROP TABLE samples")

			st, err := samples.Import(ctx, 0, SampleOriginPreset, strings.NewReader("A\nB\n\nC\n"), false)
			s.Require().NoError(err)
			s.Equal(3, st.Total)
			s.Equal(ClassStats{Preset: 3}, st.ByClass[0])

			s.Require().NoError(samples.Add(ctx, 1, SampleOriginUser, "D"))
			st, err = samples.Import(ctx, 1, SampleOriginPreset, strings.NewReader("E\nF"), false)
			s.Require().NoError(err)
			s.Equal(6, st.Total)
			s.Equal(ClassStats{Preset: 2, User: 1}, st.ByClass[1])

			// cleanup replaces preset samples of the class only
			st, err = samples.Import(ctx, 0, SampleOriginPreset, strings.NewReader("G"), true)
			s.Require().NoError(err)
			s.Equal(4, st.Total)
			s.Equal(ClassStats{Preset: 1}, st.ByClass[0])
			s.Equal("total: 4, classes: 2", st.String())

			_, err = samples.Import(ctx, 0, SampleOriginAny, strings.NewReader("X"), false)
			s.Error(err)
			_, err = samples.Import(ctx, -2, SampleOriginUser, strings.NewReader("X"), false)
			s.Error(err)
			_, err = samples.Import(ctx, 0, SampleOriginUser, nil, false)
			s.Error(err)
		})
	}
}

func (s *StorageTestSuite) TestSamples_Concurrent() {
	ctx := context.Background()
	for _, db := range s.getTestDB() {
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			samples, err := NewSamples(ctx, db)
			s.Require().NoError(err)
			defer db.Exec("DROP TABLE samples")

			var wg sync.WaitGroup
			for i := range 10 {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					s.NoError(samples.Add(ctx, i%3, SampleOriginUser, fmt.Sprintf("MSG %d", i)))
					_, err := samples.Read(ctx, AnyClass, SampleOriginAny)
					s.NoError(err)
				}(i)
			}
			wg.Wait()

			st, err := samples.Stats(ctx)
			s.Require().NoError(err)
			s.Equal(10, st.Total)
		})
	}
}

func (s *StorageTestSuite) TestSampleUpdater() {
	ctx := context.Background()
	for _, db := range s.getTestDB() {
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			samples, err := NewSamples(ctx, db)
			s.Require().NoError(err)
			defer db.Exec("DROP TABLE samples")

			upd := NewSampleUpdater(samples, 2, 0)
			s.Require().NoError(upd.Append("HELLO"))
			updTimeout := NewSampleUpdater(samples, 2, 5*time.Second)
			s.Require().NoError(updTimeout.Append("WORLD"))

			res, err := samples.Read(ctx, 2, SampleOriginUser)
			s.Require().NoError(err)
			s.Equal([]string{"HELLO", "WORLD"}, res)

			s.Require().NoError(upd.Remove("HELLO"))
			s.True(errors.Is(upd.Remove("HELLO"), ErrSampleNotFound))

			// removal is limited to user samples of the updater's class
			s.Require().NoError(samples.Add(ctx, 0, SampleOriginPreset, "HOLA"))
			s.Require().NoError(samples.Add(ctx, 0, SampleOriginUser, "BONJOUR"))
			s.Require().NoError(samples.Add(ctx, 1, SampleOriginPreset, "BONJOUR"))
			updOne := NewSampleUpdater(samples, 1, 0)
			s.True(errors.Is(updOne.Remove("HOLA"), ErrSampleNotFound))
			s.True(errors.Is(updOne.Remove("BONJOUR"), ErrSampleNotFound))
			res, err = samples.Read(ctx, 0, SampleOriginAny)
			s.Require().NoError(err)
			s.Equal([]string{"HOLA", "BONJOUR"}, res)
			res, err = samples.Read(ctx, 1, SampleOriginPreset)
			s.Require().NoError(err)
			s.Equal([]string{"BONJOUR"}, res)
		})
	}
}
