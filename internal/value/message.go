package value

import (
	"fmt"
	"time"

	"github.com/mcncl/valuetree/internal/errors"
	"github.com/mcncl/valuetree/internal/object"
)

// MessageType says why a message was emitted. Process output is MessageData.
type MessageType int

const (
	MessageProcessStateChange MessageType = iota

	MessageActionStart
	MessageActionStop
	MessageActionError

	MessageConfigurationSettingUpdate
	MessageConfigurationVariableUpdate
	MessageConfigurationVariableRemove
	MessageConfigurationCreate
	MessageConfigurationUpdate
	MessageConfigurationRemove
	MessageExecutionContextCreate
	MessageExecutionContextUpdate
	MessageExecutionContextRemove
	MessageSourceContextCreate
	MessageSourceContextUpdate
	MessageSourceContextRemove
	MessageContainerCreate
	MessageContainerRemove

	MessageExecuteNowStart
	MessageExecuteNowExecute
	MessageExecuteNowUpdate
	MessageExecuteNowStop
	MessageExecuteParallelStart
	MessageExecuteParallelExecute
	MessageExecuteParallelUpdate
	MessageExecuteParallelStop
	MessageExecuteParallelWaitingTacts

	MessageErrorType
	MessageData
)

var messageTypeNames = map[MessageType]string{
	MessageProcessStateChange:          "process_state_change",
	MessageActionStart:                 "action_start",
	MessageActionStop:                  "action_stop",
	MessageActionError:                 "action_error",
	MessageConfigurationSettingUpdate:  "configuration_setting_update",
	MessageConfigurationVariableUpdate: "configuration_variable_update",
	MessageConfigurationVariableRemove: "configuration_variable_remove",
	MessageConfigurationCreate:         "configuration_create",
	MessageConfigurationUpdate:         "configuration_update",
	MessageConfigurationRemove:         "configuration_remove",
	MessageExecutionContextCreate:      "execution_context_create",
	MessageExecutionContextUpdate:      "execution_context_update",
	MessageExecutionContextRemove:      "execution_context_remove",
	MessageSourceContextCreate:         "source_context_create",
	MessageSourceContextUpdate:         "source_context_update",
	MessageSourceContextRemove:         "source_context_remove",
	MessageContainerCreate:             "container_create",
	MessageContainerRemove:             "container_remove",
	MessageExecuteNowStart:             "execute_now_start",
	MessageExecuteNowExecute:           "execute_now_execute",
	MessageExecuteNowUpdate:            "execute_now_update",
	MessageExecuteNowStop:              "execute_now_stop",
	MessageExecuteParallelStart:        "execute_parallel_start",
	MessageExecuteParallelExecute:      "execute_parallel_execute",
	MessageExecuteParallelUpdate:       "execute_parallel_update",
	MessageExecuteParallelStop:         "execute_parallel_stop",
	MessageExecuteParallelWaitingTacts: "execute_parallel_waiting_tacts",
	MessageErrorType:                   "error",
	MessageData:                        "data",
}

func (t MessageType) String() string {
	if name, ok := messageTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("message_type(%d)", int(t))
}

func (t MessageType) Valid() bool {
	_, ok := messageTypeNames[t]
	return ok
}

// Message is a boundary value stamped with its creation time and type.
type Message struct {
	*Data
	date time.Time
	typ  MessageType
}

var _ object.Value = (*Message)(nil)

// NewMessage copies v into a message created now.
func NewMessage(typ MessageType, v object.Value) (*Message, error) {
	return NewMessageAt(typ, v, time.Now())
}

func NewMessageAt(typ MessageType, v object.Value, date time.Time) (*Message, error) {
	if !typ.Valid() {
		return nil, errors.NewConversionError(fmt.Sprintf("unknown %s", typ))
	}
	c, err := NewFactory().Copy(v)
	if err != nil {
		return nil, err
	}
	return &Message{Data: c.(*Data), date: date, typ: typ}, nil
}

// Date is the creation time.
func (m *Message) Date() time.Time {
	return m.date
}

// DateMillis is the creation time in milliseconds since the Unix epoch.
func (m *Message) DateMillis() int64 {
	return m.date.UnixMilli()
}

func (m *Message) MessageType() MessageType {
	return m.typ
}

func (m *Message) String() string {
	return fmt.Sprintf("%s %s: %s", m.date.Format(time.RFC3339), m.typ, m.Data)
}
