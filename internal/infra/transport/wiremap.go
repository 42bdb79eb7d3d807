package transport

import (
	"encoding/json"

	"venue-booking/internal/pkg/errs"
)

// FieldMap translates between the app's camelCase field names and the
// backing store's all-lowercase column names. One explicit table per
// entity, applied in both directions; a field absent from its table keeps
// the same name on the wire (single-word fields already match).
type FieldMap map[string]string

var reservationFields = FieldMap{
	"spaceId":          "spaceid",
	"userId":           "userid",
	"endDate":          "enddate",
	"customTimeLabel":  "customtimelabel",
	"createdAt":        "createdat",
	"checkedInAt":      "checkedinat",
	"eventName":        "eventname",
	"eventDescription": "eventdescription",
	"eventImage":       "eventimage",
	"isGlobalClosure":  "isglobalclosure",
	"isQuoteRequest":   "isquoterequest",
}

var spaceFields = FieldMap{
	"minDuration":    "minduration",
	"maxDuration":    "maxduration",
	"availableSlots": "availableslots",
	"showInCalendar": "showincalendar",
	"autoApprove":    "autoapprove",
}

var eventFields = FieldMap{
	"eventName":        "eventname",
	"endDate":          "enddate",
	"customTimeLabel":  "customtimelabel",
	"eventImage":       "eventimage",
	"eventDescription": "eventdescription",
	"spaceId":          "spaceid",
	"spaceIds":         "spaceids",
}

var messageFields = FieldMap{
	"readAt":         "readat",
	"senderRole":     "senderrole",
	"attachmentName": "attachmentname",
	"isDeleted":      "isdeleted",
	"editedAt":       "editedat",
}

var notificationFields = FieldMap{
	"userId": "userid",
}

// wire returns the lowercase column name for an app field.
func (f FieldMap) wire(app string) string {
	if w, ok := f[app]; ok {
		return w
	}
	return app
}

// app returns the camelCase field name for a wire column.
func (f FieldMap) app(wire string) string {
	for a, w := range f {
		if w == wire {
			return a
		}
	}
	return wire
}

func (f FieldMap) toWire(obj map[string]json.RawMessage) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(obj))
	for k, v := range obj {
		out[f.wire(k)] = v
	}
	return out
}

func (f FieldMap) fromWire(obj map[string]json.RawMessage) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(obj))
	for k, v := range obj {
		out[f.app(k)] = v
	}
	return out
}

// encodeWire serializes v with its field names rewritten to wire case.
func encodeWire(v any, f FieldMap) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, errs.Wrap(err, "encode wire record")
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(b, &obj); err != nil {
		return nil, errs.Wrap(err, "encode wire record")
	}
	return json.Marshal(f.toWire(obj))
}

// decodeWire deserializes one wire record into dst, rewriting field names
// back to app case first.
func decodeWire(data []byte, f FieldMap, dst any) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return errs.Wrap(err, "decode wire record")
	}
	b, err := json.Marshal(f.fromWire(obj))
	if err != nil {
		return errs.Wrap(err, "decode wire record")
	}
	return json.Unmarshal(b, dst)
}

// decodeWireList deserializes a wire array into a slice of T.
func decodeWireList[T any](data []byte, f FieldMap) ([]T, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errs.Wrap(err, "decode wire list")
	}
	items := make([]T, 0, len(raw))
	for _, r := range raw {
		var item T
		if err := decodeWire(r, f, &item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
