package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Minimal HTML pages so the gate's redirect target exists without a
// separate front-end build.

const loginHTML = `<!doctype html>
<html>
<head><meta charset="utf-8"><title>Sign in</title></head>
<body>
<h1>Sign in</h1>
<form id="f">
  <label>Email <input name="email" type="email" required></label><br>
  <label>Password <input name="password" type="password" required></label><br>
  <button>Sign in</button>
</form>
<p id="msg"></p>
<p><a href="/signup">Create an account</a></p>
<script>
document.getElementById("f").addEventListener("submit", async (e) => {
  e.preventDefault();
  const body = Object.fromEntries(new FormData(e.target));
  const res = await fetch("/auth/login", {
    method: "POST",
    headers: {"Content-Type": "application/json"},
    body: JSON.stringify(body),
  });
  if (res.ok) { location.href = "/events"; return; }
  const data = await res.json().catch(() => ({}));
  document.getElementById("msg").textContent = data.error || "login failed";
});
</script>
</body>
</html>`

const signupHTML = `<!doctype html>
<html>
<head><meta charset="utf-8"><title>Sign up</title></head>
<body>
<h1>Sign up</h1>
<form id="f">
  <label>Name <input name="name" required></label><br>
  <label>Email <input name="email" type="email" required></label><br>
  <label>Password <input name="password" type="password" required></label><br>
  <button>Create account</button>
</form>
<p id="msg"></p>
<p><a href="/login">Already registered? Sign in</a></p>
<script>
document.getElementById("f").addEventListener("submit", async (e) => {
  e.preventDefault();
  const body = Object.fromEntries(new FormData(e.target));
  const res = await fetch("/auth/signup", {
    method: "POST",
    headers: {"Content-Type": "application/json"},
    body: JSON.stringify(body),
  });
  if (res.ok) { location.href = "/events"; return; }
  const data = await res.json().catch(() => ({}));
  document.getElementById("msg").textContent = data.error || "signup failed";
});
</script>
</body>
</html>`

func (s *Server) loginPage(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(loginHTML))
}

func (s *Server) signupPage(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(signupHTML))
}
