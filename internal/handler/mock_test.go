package handler

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// mockSession records every call and answers with predictable ids.
type mockSession struct {
	mu sync.Mutex

	channels map[string]*discordgo.Channel
	failEdit error

	responses []*discordgo.InteractionResponse
	webhooks  []*discordgo.WebhookEdit
	followups []*discordgo.WebhookParams
	sent      map[string][]*discordgo.MessageSend
	edits     []*discordgo.MessageEdit
	deleted   []string
	threads   []*discordgo.ThreadStart

	nextID int
}

func newMockSession() *mockSession {
	return &mockSession{
		channels: map[string]*discordgo.Channel{},
		sent:     map[string][]*discordgo.MessageSend{},
	}
}

func (m *mockSession) id(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

func (m *mockSession) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
	return nil
}

func (m *mockSession) InteractionResponse(i *discordgo.Interaction, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	return &discordgo.Message{ID: "response-" + i.ID, ChannelID: i.ChannelID}, nil
}

func (m *mockSession) InteractionResponseEdit(_ *discordgo.Interaction, edit *discordgo.WebhookEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.webhooks = append(m.webhooks, edit)
	return &discordgo.Message{}, nil
}

func (m *mockSession) FollowupMessageCreate(_ *discordgo.Interaction, _ bool, data *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.followups = append(m.followups, data)
	return &discordgo.Message{ID: m.id("followup"), Content: data.Content}, nil
}

func (m *mockSession) Channel(channelID string, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ch, ok := m.channels[channelID]; ok {
		return ch, nil
	}
	return &discordgo.Channel{ID: channelID, Type: discordgo.ChannelTypeGuildText}, nil
}

func (m *mockSession) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent[channelID] = append(m.sent[channelID], data)
	return &discordgo.Message{ID: m.id("msg"), ChannelID: channelID, Content: data.Content}, nil
}

func (m *mockSession) ChannelMessageEditComplex(edit *discordgo.MessageEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failEdit != nil {
		return nil, m.failEdit
	}
	m.edits = append(m.edits, edit)
	return &discordgo.Message{ID: edit.ID, ChannelID: edit.Channel}, nil
}

func (m *mockSession) ChannelMessageDelete(_, messageID string, _ ...discordgo.RequestOption) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, messageID)
	return nil
}

func (m *mockSession) ThreadStartComplex(channelID string, data *discordgo.ThreadStart, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.threads = append(m.threads, data)
	return &discordgo.Channel{ID: m.id("thread"), ParentID: channelID, Name: data.Name, Type: data.Type}, nil
}

func (m *mockSession) lastResponse() *discordgo.InteractionResponse {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.responses) == 0 {
		return nil
	}
	return m.responses[len(m.responses)-1]
}

func (m *mockSession) lastEdit() *discordgo.MessageEdit {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.edits) == 0 {
		return nil
	}
	return m.edits[len(m.edits)-1]
}

var interactionSeq int

// command builds a slash command interaction from user "1" in guild "g".
func command(name string, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	interactionSeq++
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID:        fmt.Sprintf("i%d", interactionSeq),
		Type:      discordgo.InteractionApplicationCommand,
		GuildID:   "g",
		ChannelID: "chan",
		Member:    &discordgo.Member{User: &discordgo.User{ID: "1", Username: "alice"}},
		Data: discordgo.ApplicationCommandInteractionData{
			Name:    name,
			Options: opts,
		},
	}}
}

// press builds a button press on messageID by userID.
func press(userID, channelID, messageID, customID string) *discordgo.InteractionCreate {
	interactionSeq++
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID:        fmt.Sprintf("i%d", interactionSeq),
		Type:      discordgo.InteractionMessageComponent,
		GuildID:   "g",
		ChannelID: channelID,
		Member:    &discordgo.Member{User: &discordgo.User{ID: userID}},
		Message:   &discordgo.Message{ID: messageID, ChannelID: channelID},
		Data: discordgo.MessageComponentInteractionData{
			CustomID:      customID,
			ComponentType: discordgo.ButtonComponent,
		},
	}}
}

func boolOpt(name string, v bool) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionBoolean, Value: v}
}

func intOpt(name string, v int) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionInteger, Value: float64(v)}
}

func stringOpt(name, v string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionString, Value: v}
}

func userOpt(name, id string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionUser, Value: id}
}
