package typecheck

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber/ensime-client/src/ensime/entity"
	"github.com/uber/ensime-client/src/ensime/gateway/editor/editormock"
	"github.com/uber/ensime-client/src/ensime/model"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type fakeSender struct {
	reqs []interface{}
	opts []entity.CallOptions
}

func (s *fakeSender) SendRequest(ctx context.Context, req interface{}, opts entity.CallOptions) int {
	s.reqs = append(s.reqs, req)
	s.opts = append(s.opts, opts)
	return len(s.reqs) - 1
}

func (s *fakeSender) ScratchDir() string { return "" }

func newTestController(t *testing.T) (Controller, *fakeSender, *editormock.MockEditor) {
	ctrl := gomock.NewController(t)
	ed := editormock.NewMockEditor(ctrl)
	sender := &fakeSender{}
	c := New(Params{
		Engine: sender,
		Editor: ed,
		Logger: zap.NewNop().Sugar(),
	})
	return c, sender, ed
}

func TestTypecheckFile(t *testing.T) {
	c, sender, ed := newTestController(t)
	ctx := context.Background()

	ed.EXPECT().Path(ctx).Return("/proj/src/Foo.scala", nil)
	ed.EXPECT().SaveBuffer(ctx).Return(nil)
	ed.EXPECT().ClearNotes(ctx).Return(nil)
	ed.EXPECT().ShowMessage(ctx, "Typechecking...").Return(nil)

	require.NoError(t, c.TypecheckFile(ctx))

	require.Len(t, sender.reqs, 1)
	req, ok := sender.reqs[0].(model.TypecheckFilesReq)
	require.True(t, ok)
	assert.Equal(t, "TypecheckFilesReq", req.Typehint)
	assert.Equal(t, []string{"/proj/src/Foo.scala"}, req.Files)
}

func TestHandleNotesBuffersAcrossEvents(t *testing.T) {
	c, _, ed := newTestController(t)
	ctx := context.Background()

	first := model.NewScalaNotesEvent{Notes: []model.Note{{File: "Foo.scala", Line: 3}}}
	second := model.NewScalaNotesEvent{Notes: []model.Note{{File: "Foo.scala", Line: 9}}}

	ed.EXPECT().ShowNotes(ctx, gomock.Len(1)).Return(nil)
	c.HandleNotes(ctx, first)

	ed.EXPECT().ShowNotes(ctx, gomock.Len(2)).Return(nil)
	c.HandleNotes(ctx, second)

	ed.EXPECT().ClearNotes(ctx).Return(nil)
	c.HandleClearNotes(ctx)

	ed.EXPECT().ShowNotes(ctx, gomock.Len(1)).Return(nil)
	c.HandleNotes(ctx, second)
}

func TestHandleTypecheckComplete(t *testing.T) {
	tests := []struct {
		name    string
		notes   []model.Note
		wantMsg string
	}{
		{
			name:    "clean",
			wantMsg: "Typecheck complete",
		},
		{
			name:    "with issues",
			notes:   []model.Note{{File: "Foo.scala", Line: 1}},
			wantMsg: "Typecheck complete with issues",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, ed := newTestController(t)
			ctx := context.Background()

			if len(tt.notes) > 0 {
				ed.EXPECT().ShowNotes(ctx, gomock.Any()).Return(nil)
				c.HandleNotes(ctx, model.NewScalaNotesEvent{Notes: tt.notes})
			}

			ed.EXPECT().ShowMessage(ctx, tt.wantMsg).Return(nil)
			c.HandleTypecheckComplete(ctx)
		})
	}
}
