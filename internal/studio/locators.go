package studio

// Selectors for the YouTube Studio upload dialog. The studio UI changes
// without notice; keep every selector here.
var (
	locCreateButton    = CSS("create button", "ytcp-button#create-icon")
	locUploadMenuItem  = XPath("upload menu item", `//tp-yt-paper-item[@test-id="upload-beta"]`)
	locVideoFileInput  = XPath("video file input", `//input[@type="file"]`)
	locTitleInput      = XPath("title textbox", `//ytcp-social-suggestions-textbox[@id="title-textarea"]//div[@id="textbox"]`)
	locDescription     = XPath("description textbox", `//div[@id="description-container"]//div[@id="textbox"]`)
	locThumbnailInput  = CSS("thumbnail file input", "input#file-loader")
	locAdvancedToggle  = CSS("advanced options toggle", "#toggle-button")
	locUploadError     = XPath("upload error banner", `//ytcp-uploads-dialog//tp-yt-paper-dialog[@class="style-scope ytcp-uploads-dialog"]//div[@class="error-short style-scope ytcp-uploads-dialog"]`)
	locGameInput       = CSS("game title input", ".ytcp-form-gaming > ytcp-dropdown-trigger:nth-child(1) > :nth-child(2) > div:nth-child(3) > input:nth-child(3)")
	locGameSuggestion  = CSS("first game suggestion", "#text-item-2")
	locMadeForKids     = Name("made for kids radio", "VIDEO_MADE_FOR_KIDS_MFK")
	locNotMadeForKids  = Name("not made for kids radio", "VIDEO_MADE_FOR_KIDS_NOT_MFK")
	locNextButton      = ID("next button", "next-button")
	locScheduleRadio   = Name("schedule radio", "SCHEDULE")
	locDatePicker      = CSS("date picker trigger", "#datepicker-trigger > ytcp-dropdown-trigger:nth-child(1)")
	locDateInput       = CSS("date input", "input.tp-yt-paper-input")
	locTimePicker      = CSS("time picker trigger", "#time-of-day-trigger > ytcp-dropdown-trigger:nth-child(1) > div:nth-child(2)")
	locTimeOptions     = CSS("time of day", "tp-yt-paper-item.tp-yt-paper-item")
	locProgressLabel   = XPath("progress label", `//tp-yt-paper-dialog[@class="style-scope ytcp-uploads-dialog"]//span[@class="progress-label style-scope ytcp-video-upload-progress"]`)
	locDoneButton      = ID("done button", "done-button")
	locFirstStepBadge  = CSS("details step badge", "#step-badge-1")
	locEndScreenButton = CSS("end screen button", "#endscreens-button")
	locEndScreenCard   = CSS("first end screen card", "div.card:nth-child(1)")
	locEndScreenSave   = ID("end screen save button", "save-button")
)

const (
	dailyLimitMessage = "Daily upload limit reached"

	// Date and time renderings used by the schedule pickers, e.g.
	// "Mar 19, 2021" and "8:15 PM".
	scheduleDateLayout = "Jan 02, 2006"
	scheduleTimeLayout = "3:04 PM"

	// The first entries of the time-of-day list are headers.
	timeOptionHeaders = 2
)
