package oneshot

import "context"

// apiCall records one remote operation for ordering assertions.
type apiCall struct {
	Op     string // "create", "title", "delete"
	ConvID string
}

// fakeConversationAPI implements ConversationAPI with a call log and
// injectable failures.
type fakeConversationAPI struct {
	Calls []apiCall

	Title     string
	CreateErr error
	TitleErr  error
	DeleteErr error
}

func (f *fakeConversationAPI) CreateConversation(_ context.Context, convID string) error {
	f.Calls = append(f.Calls, apiCall{"create", convID})
	return f.CreateErr
}

func (f *fakeConversationAPI) GenerateTitle(_ context.Context, convID, _ string, _ []string) (string, error) {
	f.Calls = append(f.Calls, apiCall{"title", convID})
	if f.TitleErr != nil {
		return "", f.TitleErr
	}
	return f.Title, nil
}

func (f *fakeConversationAPI) DeleteConversation(_ context.Context, convID string) error {
	f.Calls = append(f.Calls, apiCall{"delete", convID})
	return f.DeleteErr
}

// callsFor returns the ops recorded for a given conversation id.
func (f *fakeConversationAPI) callsFor(convID string) []string {
	var ops []string
	for _, c := range f.Calls {
		if c.ConvID == convID {
			ops = append(ops, c.Op)
		}
	}
	return ops
}
