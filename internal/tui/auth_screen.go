package tui

import (
	"strings"

	"github.com/derailed/tview"
)

// initAuthScreen builds the login/signup page
func (a *App) initAuthScreen() {
	a.authStatus = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)

	a.authForm = tview.NewForm()
	a.authForm.SetBorder(true)
	a.buildAuthForm()

	logo := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter).
		SetText("ConnectIQ\nfind the right people to connect with")

	column := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(tview.NewBox(), 0, 1, false).
		AddItem(logo, 3, 0, false).
		AddItem(a.authForm, 11, 0, true).
		AddItem(a.authStatus, 2, 0, false).
		AddItem(tview.NewBox(), 0, 1, false)

	page := tview.NewFlex().
		AddItem(tview.NewBox(), 0, 1, false).
		AddItem(column, 60, 0, true).
		AddItem(tview.NewBox(), 0, 1, false)

	a.Pages.AddPage(pageAuth, page, true, true)
}

// buildAuthForm (re)creates the form fields for the current mode
func (a *App) buildAuthForm() {
	a.authForm.Clear(true)

	title := " Login "
	action := "Login"
	switchLabel := "Need an account? Sign up"
	if a.signupMode {
		title = " Sign up "
		action = "Sign up"
		switchLabel = "Have an account? Log in"
	}
	a.authForm.SetTitle(title)

	a.authForm.
		AddInputField("Email", "", 40, nil, nil).
		AddPasswordField("Password", "", 40, '*', nil).
		AddButton(action, a.submitAuth).
		AddButton(switchLabel, func() {
			a.signupMode = !a.signupMode
			a.buildAuthForm()
			a.authStatus.SetText("")
		}).
		AddButton("Quit", a.Stop)
}

// resetAuthForm clears fields and messages
func (a *App) resetAuthForm() {
	a.signupMode = false
	a.buildAuthForm()
	a.authStatus.SetText("")
}

// submitAuth runs login or signup off the UI goroutine
func (a *App) submitAuth() {
	email := strings.TrimSpace(a.authForm.GetFormItemByLabel("Email").(*tview.InputField).GetText())
	password := a.authForm.GetFormItemByLabel("Password").(*tview.InputField).GetText()
	if email == "" || password == "" {
		a.authStatus.SetText("[red]Email and password are required[-]")
		return
	}

	signup := a.signupMode
	if signup {
		a.authStatus.SetText("Signing up...")
	} else {
		a.authStatus.SetText("Logging in...")
	}

	go func() {
		if signup {
			err := a.Session.Signup(a.ctx, email, password)
			a.QueueUpdateDraw(func() {
				if err != nil {
					a.authStatus.SetText("[red]Signup failed[-]")
					return
				}
				a.signupMode = false
				a.buildAuthForm()
				a.authStatus.SetText("[green]Signup successful, now log in[-]")
			})
			return
		}

		err := a.Session.Login(a.ctx, email, password)
		a.QueueUpdateDraw(func() {
			if err != nil {
				a.authStatus.SetText("[red]Login failed[-]")
				return
			}
			a.authStatus.SetText("")
			a.showDashboard()
		})
	}()
}
