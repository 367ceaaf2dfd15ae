// Package conversation provides a scripted customer support session
// for exercising transcript reduction end to end.
//
// The script is a single recorded airline support conversation: the
// customer reschedules a flight, checks policies, and picks a seat.
// Every run produces the identical sequence of turns, so scenarios
// can replay it against any processor and assert exact reduction
// behavior without calling a real model or real tools.
package conversation

import (
	"github.com/rickchristie/winnow"
	"github.com/rickchristie/winnow/internal/tt"
)

// -----------------------------------------------------------------------------
// Scripted Conversation Fixture
// -----------------------------------------------------------------------------

// Fixture holds the scripted session. Construct with NewFixture;
// the zero value has no script.
type Fixture struct {
	script []winnow.Turn
}

// NewFixture creates a Fixture with the full scripted session.
func NewFixture() *Fixture {
	f := &Fixture{}
	f.initializeScript()
	return f
}

// Len returns the number of scripted turns.
func (f *Fixture) Len() int {
	return len(f.script)
}

// Turn returns the scripted turn at index i.
func (f *Fixture) Turn(i int) winnow.Turn {
	return f.script[i]
}

// Script returns a copy of the full scripted transcript.
func (f *Fixture) Script() []winnow.Turn {
	out := make([]winnow.Turn, len(f.script))
	copy(out, f.script)
	return out
}

// user appends a user turn to the script.
func (f *Fixture) user(text string) {
	f.script = append(f.script, winnow.NewUserTurn(text))
}

// assistant appends an assistant text turn to the script.
func (f *Fixture) assistant(text string) {
	f.script = append(f.script, winnow.NewAssistantTurn(text))
}

// toolExchange appends an invocation turn and its result turn.
func (f *Fixture) toolExchange(id, name, args, result string) {
	f.script = append(f.script,
		winnow.NewToolCallTurn(tt.ToolCall(id, name, args)),
		winnow.NewToolResultTurn(tt.ToolResult(id, name, result)),
	)
}

// initializeScript records the session. Tool call IDs are unique
// across the script; the one parallel exchange (flight info + seat
// map in a single assistant turn) exists so replays exercise
// multi-call pairing, not just simple call/result pairs.
func (f *Fixture) initializeScript() {
	f.user("Hi, this is John Smith, john.smith@email.com. " +
		"I need help with my flight tomorrow.")
	f.assistant("Hello John! I'd be happy to help with your " +
		"flight. Could you share your booking reference?")

	f.user("It's BK001.")
	f.toolExchange("call-0001", "get_booking_info",
		`{"booking_id":"BK001"}`,
		`{"booking_id":"BK001","customer_id":"C001",`+
			`"flight_number":"AA100","seat_number":"12A",`+
			`"class":"economy","status":"confirmed",`+
			`"total_price":299.00,"meal_preference":"vegetarian"}`)
	f.assistant("Found it. You're confirmed on flight AA100 from " +
		"JFK to LAX tomorrow at 8:00 AM, seat 12A in economy. " +
		"What would you like to change?")

	f.user("My meeting is running late, so I can't make the " +
		"morning departure. Is there a later flight the same " +
		"day? Evening preferred.")
	f.toolExchange("call-0002", "search_flight_schedule",
		`{"origin":"JFK","destination":"LAX","date":"2025-06-14"}`,
		`[{"flight_number":"AA101","departure_time":"14:00",`+
			`"aircraft":"Airbus A320","available_seats":23,`+
			`"economy_price":329.00},`+
			`{"flight_number":"AA102","departure_time":"20:00",`+
			`"aircraft":"Boeing 787","available_seats":67,`+
			`"economy_price":279.00}]`)
	f.assistant("There are two later departures: AA101 at 2:00 PM " +
		"($329 economy) and AA102 at 8:00 PM ($279 economy). " +
		"AA102 matches your evening preference and is cheaper " +
		"than your current fare.")

	f.user("Will I be charged a change fee?")
	f.toolExchange("call-0003", "search_airline_policy",
		`{"keyword":"change"}`,
		`[{"title":"Flight Change and Rescheduling Policy",`+
			`"content":"Changes made 24+ hours before departure: `+
			`$50 change fee for economy, free for business/first `+
			`class. Gold and Platinum frequent flyers receive one `+
			`free change per booking. If the new flight is `+
			`cheaper, the difference is provided as travel `+
			`credit."}]`)
	f.assistant("Normally a same-class change made more than 24 " +
		"hours out costs $50 in economy, but gold members get " +
		"one free change per booking and you're gold, so there's " +
		"no fee. AA102 is also $20 cheaper; the difference comes " +
		"back to you as travel credit.")

	f.user("Great, move me to AA102 then. A window seat would be " +
		"nice if one's open.")
	f.script = append(f.script,
		winnow.NewToolCallTurn(
			tt.ToolCall("call-0004", "get_flight_info",
				`{"flight_number":"AA102"}`),
			tt.ToolCall("call-0005", "get_flight_seats_info",
				`{"flight_number":"AA102","class":"economy",`+
					`"available_only":true}`),
		),
		winnow.NewToolResultTurn(
			tt.ToolResult("call-0004", "get_flight_info",
				`{"flight_number":"AA102","origin":"JFK",`+
					`"destination":"LAX","status":"scheduled",`+
					`"aircraft":"Boeing 787","available_seats":67}`),
		),
		winnow.NewToolResultTurn(
			tt.ToolResult("call-0005", "get_flight_seats_info",
				`[{"seat_number":"14B","is_window":false,`+
					`"has_extra_legroom":true},`+
					`{"seat_number":"15A","is_window":true,`+
					`"has_extra_legroom":true},`+
					`{"seat_number":"22A","is_window":true,`+
					`"has_extra_legroom":false}]`),
		),
	)
	f.assistant("AA102 is on schedule, a Boeing 787 with plenty of " +
		"availability. Open economy windows are 15A (exit row, " +
		"extra legroom) and 22A (standard). Shall I take 15A?")

	f.user("15A sounds perfect.")
	f.toolExchange("call-0006", "reschedule_booking",
		`{"booking_id":"BK001","new_flight_number":"AA102",`+
			`"new_seat_number":"15A"}`,
		`{"success":true,"old_flight_number":"AA100",`+
			`"new_flight_number":"AA102","new_seat_number":"15A",`+
			`"change_fee":0,"fare_difference":0,"fare_credit":20.00,`+
			`"total_charge":0,"message":"Successfully rescheduled `+
			`from AA100 to AA102. Total charge: $0.00. A fare `+
			`credit of $20.00 will be applied to your account `+
			`within 3-5 business days."}`)
	f.assistant("All done! You're now on AA102 departing JFK at " +
		"8:00 PM tomorrow, seat 15A. No change fee applied, and " +
		"a $20.00 travel credit will reach your account within " +
		"3-5 business days.")

	f.user("Can you email me the updated confirmation?")
	f.toolExchange("call-0007", "send_notification",
		`{"customer_id":"C001","method":"email",`+
			`"subject":"Booking BK001 updated",`+
			`"message":"Your booking BK001 has been moved to `+
			`flight AA102 departing 8:00 PM, seat 15A."}`,
		`{"success":true,"method":"email","message":"Notification `+
			`sent via email to john.smith@email.com"}`)
	f.assistant("Confirmation sent to john.smith@email.com.")

	f.user("One more thing - what's the baggage allowance in " +
		"economy?")
	f.toolExchange("call-0008", "search_airline_policy",
		`{"keyword":"baggage"}`,
		`[{"title":"Baggage Policy","content":"Economy: 1 carry-on `+
			`(22x14x9 in), 1 checked bag (50 lbs) - $35 for 2nd `+
			`bag. Overweight bags: $75 per bag over limit."}]`)
	f.assistant("Economy includes one carry-on and one checked bag " +
		"up to 50 lbs. A second checked bag is $35, and " +
		"overweight bags are $75 each.")

	f.user("Did my vegetarian meal preference carry over to the " +
		"new flight?")
	f.toolExchange("call-0009", "get_booking_info",
		`{"booking_id":"BK001"}`,
		`{"booking_id":"BK001","customer_id":"C001",`+
			`"flight_number":"AA102","seat_number":"15A",`+
			`"class":"economy","status":"confirmed",`+
			`"total_price":279.00,"meal_preference":"vegetarian"}`)
	f.assistant("Yes - your booking still shows a vegetarian meal " +
		"on the new flight.")

	f.user("Perfect, thanks for your help!")
	f.assistant("You're welcome, John. Have a great flight " +
		"tomorrow!")
}

// NewScriptedDigestModel returns a mock digest model whose scripted
// responses read like real summaries of this session, in the order a
// summarizer replay would request them. Calls past the script fall
// back to the mock's default response.
func NewScriptedDigestModel() *tt.MockModel {
	return tt.NewMockModel().
		AddResponse("John Smith (booking BK001) asked to move " +
			"his 8:00 AM AA100 flight to a later departure the " +
			"same day; the agent located the booking and found " +
			"AA101 (2:00 PM) and AA102 (8:00 PM) as options.").
		AddResponse("John chose the 8:00 PM AA102 flight. As a " +
			"gold member he pays no change fee, and the $20 " +
			"fare difference returns as travel credit. He asked " +
			"for a window seat; 15A and 22A were available.").
		AddResponse("The agent rescheduled booking BK001 to " +
			"AA102 seat 15A with no change fee and a $20 travel " +
			"credit, then emailed the updated confirmation to " +
			"john.smith@email.com.").
		AddResponse("Remaining discussion covered economy " +
			"baggage allowance (one carry-on, one 50 lb checked " +
			"bag) and confirmed the vegetarian meal preference " +
			"carried over to the new flight.")
}
