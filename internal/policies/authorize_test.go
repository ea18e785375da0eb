package policies

import "testing"

var (
	admin    = Actor{ID: 1, Role: RoleAdmin}
	editor   = Actor{ID: 7, Role: RoleEditor}
	editor2  = Actor{ID: 8, Role: RoleEditor}
	reader   = Actor{ID: 9, Role: RoleReader}
	noRole   = Actor{ID: 10, Role: RoleUnknown}
	everyone = []Actor{Anonymous, admin, editor, editor2, reader, noRole}
)

var writes = []Action{ActionCreate, ActionUpdate, ActionPartialUpdate, ActionDestroy}

func TestAuthorize_TaxonomyAndUserReadsArePublic(t *testing.T) {
	for _, kind := range []Kind{KindCategory, KindTag, KindUser} {
		for _, action := range []Action{ActionList, ActionRetrieve} {
			for _, a := range everyone {
				if d := Authorize(a, action, kind, nil); !d.Allowed {
					t.Errorf("%s %s for %+v: expected allow, got %s (%s)", action, kind, a, d, d.Reason)
				}
			}
		}
	}
}

func TestAuthorize_TaxonomyWritesAreAdminOnly(t *testing.T) {
	for _, kind := range []Kind{KindCategory, KindTag} {
		for _, action := range writes {
			for _, a := range everyone {
				want := a == admin
				if got := Authorize(a, action, kind, &Target{}).Allowed; got != want {
					t.Errorf("%s %s for %+v: expected %v, got %v", action, kind, a, want, got)
				}
			}
		}
	}
}

func TestAuthorize_PostCreate(t *testing.T) {
	tests := []struct {
		name  string
		actor Actor
		want  bool
	}{
		{"admin may create", admin, true},
		{"editor may create", editor, true},
		{"reader may not create", reader, false},
		{"anonymous may not create", Anonymous, false},
		{"missing role may not create", noRole, false},
		{"role without identity may not create", Actor{Role: RoleAdmin}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Authorize(tt.actor, ActionCreate, KindPost, nil).Allowed; got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestAuthorize_PostMutation(t *testing.T) {
	own := &Target{OwnerID: editor.ID, Status: StatusDraft}
	other := &Target{OwnerID: editor2.ID, Status: StatusPublished}

	tests := []struct {
		name   string
		actor  Actor
		target *Target
		want   bool
	}{
		{"editor updates own draft", editor, own, true},
		{"editor cannot touch another editor's post", editor, other, false},
		{"admin updates any post", admin, other, true},
		{"reader cannot update own-looking post", Actor{ID: editor.ID, Role: RoleReader}, own, false},
		{"anonymous cannot update", Anonymous, other, false},
		{"missing role cannot update", noRole, &Target{OwnerID: noRole.ID}, false},
		{"editor without target is denied", editor, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, action := range []Action{ActionUpdate, ActionPartialUpdate, ActionDestroy} {
				if got := Authorize(tt.actor, action, KindPost, tt.target).Allowed; got != tt.want {
					t.Errorf("%s: expected %v, got %v", action, tt.want, got)
				}
			}
		})
	}
}

func TestAuthorize_EditorNeverUpdatesOthersPosts(t *testing.T) {
	for _, status := range []Status{StatusDraft, StatusPublished} {
		for _, owner := range []int64{1, 2, 8, 42} {
			target := &Target{OwnerID: owner, Status: status}
			if d := Authorize(editor, ActionUpdate, KindPost, target); d.Allowed {
				t.Errorf("editor %d updated post of %d (%s)", editor.ID, owner, status)
			}
		}
	}
}

func TestAuthorize_AdminAlwaysDestroys(t *testing.T) {
	for _, status := range []Status{StatusDraft, StatusPublished} {
		for _, owner := range []int64{admin.ID, editor.ID, 99} {
			d := Authorize(admin, ActionDestroy, KindPost, &Target{OwnerID: owner, Status: status})
			if !d.Allowed || d.Reason != ReasonAdmin {
				t.Errorf("admin destroy of %d/%s: got %s (%s)", owner, status, d, d.Reason)
			}
		}
	}
}

func TestAuthorize_PostReads(t *testing.T) {
	draft := &Target{OwnerID: editor.ID, Status: StatusDraft}
	published := &Target{OwnerID: editor.ID, Status: StatusPublished}

	tests := []struct {
		name   string
		actor  Actor
		target *Target
		want   bool
	}{
		{"anonymous lists collection", Anonymous, nil, true},
		{"anonymous reads published", Anonymous, published, true},
		{"anonymous cannot read draft", Anonymous, draft, false},
		{"reader cannot read draft", reader, draft, false},
		{"missing role reads like reader", noRole, draft, false},
		{"editor reads any draft", editor2, draft, true},
		{"admin reads any draft", admin, draft, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, action := range []Action{ActionList, ActionRetrieve} {
				if got := Authorize(tt.actor, action, KindPost, tt.target).Allowed; got != tt.want {
					t.Errorf("%s: expected %v, got %v", action, tt.want, got)
				}
			}
		})
	}
}

func TestAuthorize_UserWrites(t *testing.T) {
	self := &Target{OwnerID: reader.ID}

	tests := []struct {
		name   string
		actor  Actor
		action Action
		target *Target
		want   bool
	}{
		{"user updates self", reader, ActionPartialUpdate, self, true},
		{"missing role updates self", noRole, ActionUpdate, &Target{OwnerID: noRole.ID}, true},
		{"editor cannot update someone else", editor, ActionUpdate, self, false},
		{"admin updates anyone", admin, ActionUpdate, self, true},
		{"user cannot delete self", reader, ActionDestroy, self, false},
		{"admin deletes users", admin, ActionDestroy, self, true},
		{"create is never a resource write", admin, ActionCreate, nil, false},
		{"anonymous cannot update", Anonymous, ActionUpdate, &Target{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Authorize(tt.actor, tt.action, KindUser, tt.target).Allowed; got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestAuthorize_DefaultDeny(t *testing.T) {
	if d := Authorize(admin, Action("publish"), KindPost, &Target{}); d.Allowed || d.Reason != ReasonNoRule {
		t.Errorf("unknown action: got %s (%s)", d, d.Reason)
	}
	if d := Authorize(admin, ActionList, Kind("comment"), nil); d.Allowed {
		t.Errorf("unknown kind: got %s", d)
	}
}

func TestParseRole(t *testing.T) {
	for _, r := range []Role{RoleUnknown, RoleReader, RoleEditor, RoleAdmin} {
		parsed, err := ParseRole(r.String())
		if err != nil || parsed != r {
			t.Errorf("ParseRole(%q) = %v, %v", r.String(), parsed, err)
		}
	}
	if _, err := ParseRole("superuser"); err == nil {
		t.Error("expected error for unknown role")
	}
}
