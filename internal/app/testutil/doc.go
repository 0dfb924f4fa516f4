// Package testutil provides testify mocks for the pipeline stages and small
// fixtures shared by the pipeline and HTTP handler tests.
//
// Mocks record every call so a test can assert that a stage was never reached:
//
//	transcriber := testutil.NewMockTranscriber()
//	transcriber.On("Transcribe", mock.Anything, audio, "webm").Return("What is liberty?", nil)
//	...
//	video.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
package testutil
