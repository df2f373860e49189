// ABOUTME: Onboarding DraftStore backed by Charm KV.
// ABOUTME: Drafts live under "draft:<user>" and accept the legacy flat shape on load.
package charm

import (
	"fmt"

	"github.com/harperreed/mealplan/internal/onboarding"
)

var _ onboarding.DraftStore = (*Client)(nil)

// DraftKey returns the KV key for a user's draft.
func DraftKey(user string) string {
	return DraftPrefix + user
}

// Load retrieves the draft stored for user.
func (c *Client) Load(user string) (*onboarding.Draft, bool, error) {
	data, ok, err := c.get(DraftKey(user))
	if err != nil {
		return nil, false, fmt.Errorf("get draft: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	d, err := onboarding.DecodeDraft(data)
	if err != nil {
		return nil, false, err
	}
	return d, true, nil
}

// Save stores the draft for user.
func (c *Client) Save(user string, d *onboarding.Draft) error {
	data, err := onboarding.EncodeDraft(d)
	if err != nil {
		return err
	}
	return c.set(DraftKey(user), data)
}

// Delete removes the draft for user. Deleting a missing draft is not an error.
func (c *Client) Delete(user string) error {
	_, ok, err := c.get(DraftKey(user))
	if err != nil {
		return fmt.Errorf("get draft: %w", err)
	}
	if !ok {
		return nil
	}
	return c.delete(DraftKey(user))
}

// ListDraftUsers returns the users that have a stored draft.
func (c *Client) ListDraftUsers() ([]string, error) {
	users, err := c.keysByPrefix(DraftPrefix)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	return users, nil
}
